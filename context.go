package proxytrust

import "context"

type decisionContextKey struct{}

// NewContext returns a copy of ctx carrying d.
func NewContext(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, decisionContextKey{}, d)
}

// DecisionFromContext returns the Decision stored by Middleware, if any.
//
// Handlers can use it to tell a request that carried no IP header apart from
// one whose chain was tolerated in lenient mode.
func DecisionFromContext(ctx context.Context) (Decision, bool) {
	if ctx == nil {
		return Decision{}, false
	}
	d, ok := ctx.Value(decisionContextKey{}).(Decision)
	return d, ok
}
