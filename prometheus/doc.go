// Package prometheus records proxytrust evaluations as Prometheus counters.
//
// Two counter vectors are exported:
//
//	proxytrust_evaluations_total{outcome="pass_through|trusted|untrusted_strict|untrusted_lenient"}
//	proxytrust_security_events_total{event="untrusted_proxy|chain_too_long|invalid_trusted_range"}
//
// WithRegisterer is the usual entry point:
//
//	filter, err := proxytrust.New(
//		proxytrust.TrustedCIDR("10.0.0.0/8"),
//		prometheus.WithRegisterer(registry),
//	)
//
// Collectors are registered when the filter is built, so several filters can
// share one registry and feed the same counters.
package prometheus
