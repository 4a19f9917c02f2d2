package proxytrust

import (
	"context"
	"net/http"
)

// HeaderValues provides access to request header values by name.
//
// Implementations should return one slice entry per received header line.
// Header names are requested in canonical MIME format (for example
// "X-Forwarded-For").
//
// net/http's http.Header satisfies this interface directly.
type HeaderValues interface {
	Values(name string) []string
}

// HeaderValuesFunc adapts a function to the HeaderValues interface.
type HeaderValuesFunc func(name string) []string

// Values implements HeaderValues.
func (f HeaderValuesFunc) Values(name string) []string {
	if f == nil {
		return nil
	}

	return f(name)
}

// RequestInput provides framework-agnostic request data for evaluation.
//
// Context defaults to context.Background() when nil. RemoteAddr is the
// transport-level peer address, with or without a port. Host is the host
// the request currently carries.
type RequestInput struct {
	Context    context.Context
	RemoteAddr string
	Host       string
	Path       string
	Headers    HeaderValues
}

func requestInputContext(input RequestInput) context.Context {
	if input.Context == nil {
		return context.Background()
	}

	return input.Context
}

func headerValues(headers HeaderValues, name string) []string {
	if headers == nil || isNilInterface(headers) {
		return nil
	}

	return headers.Values(name)
}

func inputFromRequest(r *http.Request) RequestInput {
	input := RequestInput{
		Context:    r.Context(),
		RemoteAddr: r.RemoteAddr,
		Host:       r.Host,
	}
	if r.URL != nil {
		input.Path = r.URL.Path
	}
	if r.Header != nil {
		input.Headers = r.Header
	}
	return input
}
