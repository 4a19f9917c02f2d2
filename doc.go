// Package proxytrust restores the client address and host of requests that
// arrive through trusted reverse proxies.
//
// A Filter reads the forwarding chain from a header (X-Forwarded-For by
// default), checks that every proxy that vouches for the client lies within a
// trusted IPv4 range, and only then treats the left-most entry as the client
// address and the left-most forwarded host (X-Forwarded-Host by default) as
// the request host.
//
// # Trust Rules
//
//   - The trusted range is a single IPv4 address or CIDR block, loopback
//     127.0.0.1 by default. Malformed values fall back to the default.
//   - Every chain entry after the first, plus the socket peer address, must
//     lie within the trusted range.
//   - The first entry is the client being vouched for and is never checked,
//     even when it is empty. Empty entries after it are skipped.
//   - The forwarded host is never checked; only the IP chain gates trust.
//
// # Basic Usage
//
//	filter, err := proxytrust.New(
//	    proxytrust.TrustedCIDR("10.0.0.0/24"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	http.Handle("/", filter.Middleware(appHandler))
//
// # Outcomes
//
// Each evaluation yields one Outcome:
//
//   - OutcomePassThrough: no IP header, the request is left as is.
//   - OutcomeTrusted: the request identity is rewritten.
//   - OutcomeUntrustedStrict: the request is rejected with ErrUntrustedProxy.
//   - OutcomeUntrustedLenient: with Strict(false), the request proceeds with
//     its original identity and no error.
//
// Requests are never partially rewritten. Evaluate and EvaluateFrom only
// report a Decision; Apply and Middleware hand downstream code a rewritten
// clone.
//
// # Observability
//
// The logger receives the request context, so trace or span IDs flow through.
// *slog.Logger satisfies Logger directly. A Prometheus adapter lives in
// github.com/abczzz13/proxytrust/prometheus.
//
//	metrics, _ := proxytrustprom.New()
//
//	filter, err := proxytrust.New(
//	    proxytrust.TrustedCIDR("10.0.0.0/24"),
//	    proxytrust.WithLogger(slog.Default()),
//	    proxytrust.WithMetrics(metrics),
//	)
//
// # Thread Safety
//
// Filter instances are safe for concurrent use. They are typically created
// once at application startup and reused across all requests.
package proxytrust
