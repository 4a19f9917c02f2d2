package proxytrust

const (
	securityEventUntrustedProxy      = "untrusted_proxy"
	securityEventChainTooLong        = "chain_too_long"
	securityEventInvalidTrustedRange = "invalid_trusted_range"
)
