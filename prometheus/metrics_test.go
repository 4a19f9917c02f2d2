package prometheus

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/abczzz13/proxytrust"
	prom "github.com/prometheus/client_golang/prometheus"
)

type mockMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		outcomes: make(map[string]int),
	}
}

func (m *mockMetrics) RecordOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *mockMetrics) RecordSecurityEvent(string) {}

func (m *mockMetrics) getOutcomeCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

func newForwardedRequest(remoteAddr, xff string) *http.Request {
	req := &http.Request{
		RemoteAddr: remoteAddr,
		Header:     make(http.Header),
	}
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	return req
}

func TestWithMetrics_Option(t *testing.T) {
	filter, err := proxytrust.New(
		WithMetrics(),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	decision, err := filter.Evaluate(newForwardedRequest("127.0.0.1:12345", "203.0.113.5"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if decision.Outcome != proxytrust.OutcomeTrusted {
		t.Fatalf("Outcome = %v, want %v", decision.Outcome, proxytrust.OutcomeTrusted)
	}
}

func TestWithRegisterer_Option(t *testing.T) {
	registry := prom.NewRegistry()

	filter, err := proxytrust.New(
		WithRegisterer(registry),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := filter.Evaluate(newForwardedRequest("127.0.0.1:12345", "203.0.113.5")); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if _, err := filter.Evaluate(newForwardedRequest("127.0.0.1:12345", "203.0.113.5, 10.0.0.9")); err == nil {
		t.Fatal("expected Evaluate() error for untrusted hop")
	}
	if _, err := filter.Evaluate(newForwardedRequest("127.0.0.1:12345", "")); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	tests := []struct {
		outcome string
		want    float64
	}{
		{outcome: "trusted", want: 1},
		{outcome: "untrusted_strict", want: 1},
		{outcome: "pass_through", want: 1},
		{outcome: "untrusted_lenient", want: 0},
	}
	for _, tt := range tests {
		if got := counterValue(registry, evaluationsMetricName, map[string]string{"outcome": tt.outcome}); got != tt.want {
			t.Errorf("%s{outcome=%q} = %v, want %v", evaluationsMetricName, tt.outcome, got, tt.want)
		}
	}

	if got := counterValue(registry, securityEventsMetricName, map[string]string{"event": "untrusted_proxy"}); got != 1 {
		t.Fatalf("%s{event=untrusted_proxy} = %v, want 1", securityEventsMetricName, got)
	}
}

func TestWithRegisterer_RecordsInvalidTrustedRange(t *testing.T) {
	registry := prom.NewRegistry()

	_, err := proxytrust.New(
		proxytrust.TrustedCIDR("10.0.0.0/33"),
		WithRegisterer(registry),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if got := counterValue(registry, securityEventsMetricName, map[string]string{"event": "invalid_trusted_range"}); got != 1 {
		t.Fatalf("%s{event=invalid_trusted_range} = %v, want 1", securityEventsMetricName, got)
	}
}

func TestMetricsOptions_Precedence_LastWins(t *testing.T) {
	t.Run("custom metrics after prometheus option", func(t *testing.T) {
		registry := prom.NewRegistry()
		customMetrics := newMockMetrics()

		filter, err := proxytrust.New(
			WithRegisterer(registry),
			proxytrust.WithMetrics(customMetrics),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		_, _ = filter.Evaluate(newForwardedRequest("127.0.0.1:12345", "203.0.113.5"))

		if got := customMetrics.getOutcomeCount("trusted"); got != 1 {
			t.Fatalf("custom metrics trusted count = %d, want 1", got)
		}
		if got := counterValue(registry, evaluationsMetricName, map[string]string{"outcome": "trusted"}); got != 0 {
			t.Fatalf("prometheus counter = %v, want 0", got)
		}
	})

	t.Run("prometheus option after custom metrics", func(t *testing.T) {
		registry := prom.NewRegistry()
		customMetrics := newMockMetrics()

		filter, err := proxytrust.New(
			proxytrust.WithMetrics(customMetrics),
			WithRegisterer(registry),
		)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		_, _ = filter.Evaluate(newForwardedRequest("127.0.0.1:12345", "203.0.113.5"))

		if got := customMetrics.getOutcomeCount("trusted"); got != 0 {
			t.Fatalf("custom metrics trusted count = %d, want 0", got)
		}
		if got := counterValue(registry, evaluationsMetricName, map[string]string{"outcome": "trusted"}); got != 1 {
			t.Fatalf("prometheus counter = %v, want 1", got)
		}
	})
}

func TestNewWithRegisterer_ReusesRegisteredCollectors(t *testing.T) {
	registry := prom.NewRegistry()
	metricsA, err := NewWithRegisterer(registry)
	if err != nil {
		t.Fatalf("NewWithRegisterer() error = %v", err)
	}

	metricsB, err := NewWithRegisterer(registry)
	if err != nil {
		t.Fatalf("second NewWithRegisterer() error = %v", err)
	}

	metricsA.RecordOutcome("trusted")
	metricsB.RecordOutcome("trusted")
	metricsB.RecordSecurityEvent("untrusted_proxy")

	if got := counterValue(registry, evaluationsMetricName, map[string]string{"outcome": "trusted"}); got != 2 {
		t.Fatalf("%s{outcome=trusted} = %v, want 2", evaluationsMetricName, got)
	}
}

type failingRegisterer struct {
	err error
}

func (r failingRegisterer) Register(prom.Collector) error {
	return r.err
}

func (r failingRegisterer) MustRegister(...prom.Collector) {}

func (r failingRegisterer) Unregister(prom.Collector) bool {
	return false
}

func TestNewWithRegisterer_RegisterError(t *testing.T) {
	registerErr := errors.New("register failed")

	_, err := NewWithRegisterer(failingRegisterer{err: registerErr})
	if !errors.Is(err, registerErr) {
		t.Fatalf("error = %v, want wrapped register error", err)
	}
}

func TestWithRegisterer_OptionError(t *testing.T) {
	registerErr := errors.New("register failed")

	_, err := proxytrust.New(WithRegisterer(failingRegisterer{err: registerErr}))
	if !errors.Is(err, registerErr) {
		t.Fatalf("New() error = %v, want wrapped register error", err)
	}
}

func TestNewWithRegisterer_IncompatibleCollectorType(t *testing.T) {
	registry := prom.NewRegistry()
	gauge := prom.NewGaugeVec(
		prom.GaugeOpts{
			Name: evaluationsMetricName,
			Help: evaluationsHelp,
		},
		[]string{"outcome"},
	)
	if err := registry.Register(gauge); err != nil {
		t.Fatalf("registry.Register() error = %v", err)
	}

	_, err := NewWithRegisterer(registry)
	if err == nil {
		t.Fatal("expected error for incompatible existing collector type")
	}
	if !strings.Contains(err.Error(), "already registered as") {
		t.Fatalf("error = %q, want already-registered message", err.Error())
	}
}

func counterValue(registry *prom.Registry, metricName string, labels map[string]string) float64 {
	metricFamilies, err := registry.Gather()
	if err != nil {
		return 0
	}

	for _, family := range metricFamilies {
		if family.GetName() != metricName {
			continue
		}

		for _, metric := range family.GetMetric() {
			metricLabels := make(map[string]string, len(metric.GetLabel()))
			for _, pair := range metric.GetLabel() {
				metricLabels[pair.GetName()] = pair.GetValue()
			}

			if !labelsMatch(metricLabels, labels) {
				continue
			}
			if metric.GetCounter() == nil {
				return 0
			}
			return metric.GetCounter().GetValue()
		}
	}

	return 0
}

func labelsMatch(metricLabels, labels map[string]string) bool {
	for labelName, labelValue := range labels {
		if metricLabels[labelName] != labelValue {
			return false
		}
	}

	return true
}
