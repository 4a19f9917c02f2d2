package proxytrust

import (
	"errors"
	"fmt"
)

var (
	// ErrUntrustedProxy is returned in strict mode when a vouching hop lies
	// outside the trusted range.
	ErrUntrustedProxy = errors.New("untrusted forwarding proxy")

	// ErrChainTooLong is returned in strict mode when the IP header holds more
	// entries than MaxChainLength allows.
	ErrChainTooLong = errors.New("forwarding chain too long")

	// ErrInvalidRange is wrapped by every RangeError.
	ErrInvalidRange = errors.New("invalid trusted range")
)

// TrustChainError reports a forwarding chain that could not be vouched for.
type TrustChainError struct {
	Err    error
	Header string
	Chain  string
	// UntrustedHop is the first hop found outside the trusted range. It is
	// empty when the chain was rejected for its length.
	UntrustedHop string
	// Index is the position of UntrustedHop in the header chain. The socket
	// peer, when it is the offending hop, has index len(chain). Index is -1
	// when the chain was rejected for its length.
	Index int
}

func (e *TrustChainError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v (chain=%q)", e.Header, e.Err, e.Chain)
	}
	return fmt.Sprintf("%s: %v (chain=%q, hop=%q, index=%d)", e.Header, e.Err, e.Chain, e.UntrustedHop, e.Index)
}

func (e *TrustChainError) Unwrap() error {
	return e.Err
}

// RangeError reports a trusted range string that does not match
// a.b.c.d[/bits].
type RangeError struct {
	Input string
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v %q (want a.b.c.d or a.b.c.d/0-32)", e.Err, e.Input)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

// Outcome classifies a single evaluation.
type Outcome int

const (
	// OutcomePassThrough means no IP header was present; nothing was changed.
	OutcomePassThrough Outcome = iota + 1
	// OutcomeTrusted means every vouching hop was trusted and the request
	// identity was rewritten.
	OutcomeTrusted
	// OutcomeUntrustedStrict means a hop was untrusted and the request was
	// rejected.
	OutcomeUntrustedStrict
	// OutcomeUntrustedLenient means a hop was untrusted but the request
	// proceeded with its original identity.
	OutcomeUntrustedLenient
)

// String returns the canonical text representation of o.
func (o Outcome) String() string {
	switch o {
	case OutcomePassThrough:
		return "pass_through"
	case OutcomeTrusted:
		return "trusted"
	case OutcomeUntrustedStrict:
		return "untrusted_strict"
	case OutcomeUntrustedLenient:
		return "untrusted_lenient"
	default:
		return "unknown"
	}
}

// Proceed reports whether the request may continue to downstream handlers.
func (o Outcome) Proceed() bool {
	return o != OutcomeUntrustedStrict
}

// Decision is the result of evaluating one request.
//
// RemoteAddr and Host hold the identity the request should carry afterwards;
// for every outcome other than OutcomeTrusted they equal the original values.
type Decision struct {
	Outcome Outcome

	RemoteAddr string

	Host string

	// HostRewritten is true when a forwarded host replaced the original host.
	HostRewritten bool

	// Chain holds the parsed IP header entries, originating client first.
	Chain []string
}

// Rewritten reports whether the decision changes the request identity.
func (d Decision) Rewritten() bool {
	return d.Outcome == OutcomeTrusted
}
