package proxytrust

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Filter validates forwarding chains against a trusted range and rewrites the
// perceived client address and host of trusted requests.
//
// Filter instances are immutable after New and safe for concurrent use.
type Filter struct {
	config *config
}

// New creates a Filter from one or more Option builders.
func New(opts ...Option) (*Filter, error) {
	cfg, err := configFromOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.rangeFallback {
		cfg.metrics.RecordSecurityEvent(securityEventInvalidTrustedRange)
		cfg.logger.WarnContext(context.Background(), "invalid trusted range configured, falling back to loopback",
			"event", securityEventInvalidTrustedRange,
			"trusted", cfg.trustedInput,
			"fallback", cfg.trustedRange.String(),
		)
	}

	return &Filter{config: cfg}, nil
}

// TrustedRange returns the range every vouching hop must fall within.
func (f *Filter) TrustedRange() TrustedRange {
	return f.config.trustedRange
}

// Strict reports whether untrusted chains are rejected.
func (f *Filter) Strict() bool {
	return f.config.strict
}

// IPHeader returns the canonical name of the forwarding chain header.
func (f *Filter) IPHeader() string {
	return f.config.ipHeader
}

// HostHeader returns the canonical name of the forwarded host header.
func (f *Filter) HostHeader() string {
	return f.config.hostHeader
}

// Evaluate decides how r should be treated without modifying it.
//
// The returned error is non-nil only for OutcomeUntrustedStrict and wraps
// ErrUntrustedProxy or ErrChainTooLong in a *TrustChainError.
func (f *Filter) Evaluate(r *http.Request) (Decision, error) {
	if r == nil {
		r = &http.Request{}
	}

	return f.evaluate(inputFromRequest(r))
}

// EvaluateFrom decides how a request described by framework-agnostic input
// should be treated.
func (f *Filter) EvaluateFrom(input RequestInput) (Decision, error) {
	input.Context = requestInputContext(input)
	return f.evaluate(input)
}

// Apply evaluates r and returns the request downstream handlers should see.
//
// For OutcomeTrusted the returned request is a clone of r carrying the
// originating address and host; r itself is never modified. For every other
// outcome r is returned unchanged.
func (f *Filter) Apply(r *http.Request) (*http.Request, Decision, error) {
	decision, err := f.Evaluate(r)
	if err != nil || !decision.Rewritten() || r == nil {
		return r, decision, err
	}

	out := r.Clone(r.Context())
	out.RemoteAddr = decision.RemoteAddr
	if decision.HostRewritten {
		out.Host = decision.Host
	}

	return out, decision, nil
}

func (f *Filter) evaluate(input RequestInput) (Decision, error) {
	decision := Decision{
		RemoteAddr: input.RemoteAddr,
		Host:       input.Host,
	}

	chain := splitHeaderList(headerValues(input.Headers, f.config.ipHeader))
	if len(chain) == 0 {
		decision.Outcome = OutcomePassThrough
		f.config.metrics.RecordOutcome(decision.Outcome.String())
		return decision, nil
	}
	decision.Chain = chain

	if f.config.maxChainLength > 0 && len(chain) > f.config.maxChainLength {
		return f.untrusted(input, decision, securityEventChainTooLong, "forwarding chain exceeds configured maximum length",
			&TrustChainError{
				Err:    ErrChainTooLong,
				Header: f.config.ipHeader,
				Chain:  strings.Join(chain, ", "),
				Index:  -1,
			},
			"chain_length", len(chain),
			"max_length", f.config.maxChainLength,
		)
	}

	if hop, index, found := f.firstUntrustedHop(chain, input.RemoteAddr); found {
		return f.untrusted(input, decision, securityEventUntrustedProxy, "request forwarded through untrusted proxy",
			&TrustChainError{
				Err:          ErrUntrustedProxy,
				Header:       f.config.ipHeader,
				Chain:        strings.Join(chain, ", "),
				UntrustedHop: hop,
				Index:        index,
			},
			"untrusted_hop", hop,
			"hop_index", index,
		)
	}

	decision.Outcome = OutcomeTrusted
	decision.RemoteAddr = chain[0]
	if host, ok := firstHeaderEntry(headerValues(input.Headers, f.config.hostHeader)); ok {
		decision.Host = host
		decision.HostRewritten = true
	}

	f.config.metrics.RecordOutcome(decision.Outcome.String())
	return decision, nil
}

// firstUntrustedHop checks every vouching hop: the chain entries after the
// originating client, then the socket peer. The originating entry chain[0]
// is never checked, even when it is empty.
func (f *Filter) firstUntrustedHop(chain []string, peer string) (string, int, bool) {
	for i := 1; i < len(chain); i++ {
		hop := chain[i]
		if !f.config.trustedRange.ContainsString(hop) {
			return hop, i, true
		}
	}

	if !f.config.trustedRange.ContainsString(peer) {
		return peer, len(chain), true
	}

	return "", 0, false
}

func (f *Filter) untrusted(input RequestInput, decision Decision, event, msg string, err *TrustChainError, attrs ...any) (Decision, error) {
	f.config.metrics.RecordSecurityEvent(event)

	attrs = append(attrs, "chain", err.Chain)
	f.logSecurityWarning(input, event, msg, attrs...)

	if f.config.strict {
		decision.Outcome = OutcomeUntrustedStrict
		f.config.metrics.RecordOutcome(decision.Outcome.String())
		return decision, err
	}

	decision.Outcome = OutcomeUntrustedLenient
	f.config.metrics.RecordOutcome(decision.Outcome.String())
	return decision, nil
}

func (f *Filter) logSecurityWarning(input RequestInput, event, msg string, attrs ...any) {
	baseAttrs := []any{
		"event", event,
		"ip_header", f.config.ipHeader,
		"path", input.Path,
		"remote_addr", input.RemoteAddr,
		"strict", f.config.strict,
	}

	baseAttrs = append(baseAttrs, attrs...)
	f.config.logger.WarnContext(input.Context, msg, baseAttrs...)
}
