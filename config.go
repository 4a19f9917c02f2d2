package proxytrust

import (
	"fmt"
	"net/http"
	"net/textproto"
)

const (
	// DefaultIPHeader carries the forwarding chain, originating client first.
	DefaultIPHeader = "X-Forwarded-For"
	// DefaultHostHeader carries the forwarded host chain.
	DefaultHostHeader = "X-Forwarded-Host"
)

// Option configures a Filter.
//
// Construct options using package-provided option builder functions.
type Option func(*config) error

// ErrorHandler writes the response for a request rejected in strict mode.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// config holds filter configuration state.
//
// It is mutated by Option functions during construction and read-only once
// the Filter is built.
type config struct {
	trustedRange  TrustedRange
	trustedInput  string
	rangeFallback bool

	ipHeader       string
	hostHeader     string
	strict         bool
	maxChainLength int

	logger       Logger
	metrics      Metrics
	errorHandler ErrorHandler

	metricsFactory    func() (Metrics, error)
	useMetricsFactory bool
}

func defaultConfig() *config {
	return &config{
		trustedRange:   DefaultTrustedRange(),
		trustedInput:   DefaultTrustedCIDR,
		ipHeader:       DefaultIPHeader,
		hostHeader:     DefaultHostHeader,
		strict:         true,
		logger:         noopLogger{},
		metrics:        noopMetrics{},
		errorHandler:   forbiddenErrorHandler,
	}
}

func applyOptions(c *config, opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return err
		}
	}

	return nil
}

func configFromOptions(opts ...Option) (*config, error) {
	cfg := defaultConfig()

	if err := applyOptions(cfg, opts...); err != nil {
		return nil, err
	}

	cfg.ipHeader = textproto.CanonicalMIMEHeaderKey(cfg.ipHeader)
	cfg.hostHeader = textproto.CanonicalMIMEHeaderKey(cfg.hostHeader)

	if cfg.useMetricsFactory && cfg.metricsFactory == nil {
		return nil, fmt.Errorf("metrics factory cannot be nil")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.useMetricsFactory {
		metrics, err := cfg.metricsFactory()
		if err != nil {
			return nil, err
		}
		if isNilInterface(metrics) {
			return nil, fmt.Errorf("metrics factory returned nil metrics")
		}
		cfg.metrics = metrics
	}

	return cfg, nil
}

func forbiddenErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}
