package proxytrust

import "fmt"

// TrustedCIDR sets the trusted proxy range from "a.b.c.d" or "a.b.c.d/bits".
//
// A malformed value does not fail construction: the filter falls back to the
// loopback-only range and reports an invalid_trusted_range security event.
func TrustedCIDR(cidr string) Option {
	return func(c *config) error {
		r, ok := parseRangeOrDefault(cidr)
		c.trustedRange = r
		c.trustedInput = cidr
		c.rangeFallback = !ok
		return nil
	}
}

// TrustRange sets a pre-built trusted proxy range.
func TrustRange(r TrustedRange) Option {
	return func(c *config) error {
		for i := range r.Min {
			if r.Min[i] > r.Max[i] {
				return fmt.Errorf("trusted range min %v exceeds max %v at octet %d", r.Min, r.Max, i)
			}
		}

		c.trustedRange = r
		c.trustedInput = r.String()
		c.rangeFallback = false
		return nil
	}
}

// IPHeader sets the header carrying the forwarding chain.
func IPHeader(name string) Option {
	return func(c *config) error {
		c.ipHeader = name
		return nil
	}
}

// HostHeader sets the header carrying the forwarded host chain.
func HostHeader(name string) Option {
	return func(c *config) error {
		c.hostHeader = name
		return nil
	}
}

// Strict controls whether an untrusted hop rejects the request (true) or is
// tolerated without rewriting the request identity (false).
func Strict(strict bool) Option {
	return func(c *config) error {
		c.strict = strict
		return nil
	}
}

// MaxChainLength caps the number of IP header entries accepted. Longer
// chains are treated as untrusted. The default of 0 accepts chains of any
// length.
func MaxChainLength(max int) Option {
	return func(c *config) error {
		c.maxChainLength = max
		return nil
	}
}

// WithLogger sets the logger used for security warnings.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a concrete metrics implementation.
//
// If previously configured, a metrics factory is disabled.
func WithMetrics(metrics Metrics) Option {
	return func(c *config) error {
		c.metrics = metrics
		c.metricsFactory = nil
		c.useMetricsFactory = false
		return nil
	}
}

// WithMetricsFactory configures a lazy metrics constructor.
//
// The factory is invoked only after option validation succeeds.
func WithMetricsFactory(factory func() (Metrics, error)) Option {
	return func(c *config) error {
		if factory == nil {
			return fmt.Errorf("metrics factory cannot be nil")
		}

		c.metricsFactory = factory
		c.useMetricsFactory = true
		return nil
	}
}

// WithErrorHandler sets the response writer used by Middleware for requests
// rejected in strict mode. The default responds 403 Forbidden.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(c *config) error {
		c.errorHandler = handler
		return nil
	}
}
