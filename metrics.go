package proxytrust

// Metrics records evaluation outcomes and security events emitted by Filter.
//
// Implementations should be safe for concurrent use, as a single Filter
// instance is typically shared across many goroutines.
type Metrics interface {
	// RecordOutcome is called once per evaluated request with the
	// Outcome.String() value.
	RecordOutcome(outcome string)
	// RecordSecurityEvent is called when the filter observes a
	// security-relevant condition.
	RecordSecurityEvent(event string)
}

// noopMetrics is the default Metrics implementation when metrics are not
// explicitly configured.
type noopMetrics struct{}

func (noopMetrics) RecordOutcome(string) {}

func (noopMetrics) RecordSecurityEvent(string) {}
