package prometheus

import (
	"errors"
	"fmt"

	"github.com/abczzz13/proxytrust"
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	evaluationsMetricName    = "proxytrust_evaluations_total"
	securityEventsMetricName = "proxytrust_security_events_total"

	evaluationsHelp    = "Forwarding chain evaluations, labeled by outcome."
	securityEventsHelp = "Untrusted chains and configuration fallbacks seen by the filter, labeled by event."
)

// PrometheusMetrics counts filter outcomes and security events.
type PrometheusMetrics struct {
	evaluations    *prom.CounterVec
	securityEvents *prom.CounterVec
}

var _ proxytrust.Metrics = (*PrometheusMetrics)(nil)

// WithMetrics wires PrometheusMetrics into a filter through
// prom.DefaultRegisterer.
func WithMetrics() proxytrust.Option {
	return WithRegisterer(prom.DefaultRegisterer)
}

// WithRegisterer wires PrometheusMetrics into a filter through registerer.
// Registration happens only once the rest of the filter configuration is
// valid.
func WithRegisterer(registerer prom.Registerer) proxytrust.Option {
	return proxytrust.WithMetricsFactory(func() (proxytrust.Metrics, error) {
		return NewWithRegisterer(registerer)
	})
}

// New is NewWithRegisterer(prom.DefaultRegisterer).
func New() (*PrometheusMetrics, error) {
	return NewWithRegisterer(prom.DefaultRegisterer)
}

// NewWithRegisterer registers both counter vectors on registerer, or on
// prom.DefaultRegisterer when it is nil. Counters already registered by an
// earlier call are shared.
func NewWithRegisterer(registerer prom.Registerer) (*PrometheusMetrics, error) {
	if registerer == nil {
		registerer = prom.DefaultRegisterer
	}

	evaluations, err := counterVec(registerer, evaluationsMetricName, evaluationsHelp, "outcome")
	if err != nil {
		return nil, err
	}

	securityEvents, err := counterVec(registerer, securityEventsMetricName, securityEventsHelp, "event")
	if err != nil {
		return nil, err
	}

	return &PrometheusMetrics{
		evaluations:    evaluations,
		securityEvents: securityEvents,
	}, nil
}

// counterVec registers a single-label counter vector, returning the existing
// collector when one with the same descriptor is already registered.
func counterVec(registerer prom.Registerer, name, help, label string) (*prom.CounterVec, error) {
	collector := prom.NewCounterVec(prom.CounterOpts{Name: name, Help: help}, []string{label})

	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegistered prom.AlreadyRegisteredError
	if !errors.As(err, &alreadyRegistered) {
		return nil, fmt.Errorf("register metric %q: %w", name, err)
	}

	existing, ok := alreadyRegistered.ExistingCollector.(*prom.CounterVec)
	if !ok {
		return nil, fmt.Errorf("metric %q already registered as %T", name, alreadyRegistered.ExistingCollector)
	}
	return existing, nil
}

func (m *PrometheusMetrics) RecordOutcome(outcome string) {
	m.evaluations.WithLabelValues(outcome).Inc()
}

func (m *PrometheusMetrics) RecordSecurityEvent(event string) {
	m.securityEvents.WithLabelValues(event).Inc()
}
