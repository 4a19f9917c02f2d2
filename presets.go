package proxytrust

// PresetLoopbackProxy configures the filter for an application behind a
// reverse proxy on the same host. It trusts only 127.0.0.1 and rejects
// requests forwarded through anything else.
func PresetLoopbackProxy() Option {
	return func(c *config) error {
		return applyOptions(c,
			TrustedCIDR(DefaultTrustedCIDR),
			Strict(true),
		)
	}
}

// PresetPrivateNetworkProxy configures the filter for proxies inside a
// private network range such as "10.0.0.0/8".
func PresetPrivateNetworkProxy(cidr string) Option {
	return func(c *config) error {
		return applyOptions(c,
			TrustedCIDR(cidr),
			Strict(true),
		)
	}
}

// PresetLenient keeps the request identity unchanged instead of rejecting
// requests that were forwarded through untrusted proxies.
//
// Do not use it where the client address gates authorization.
func PresetLenient() Option {
	return Strict(false)
}
