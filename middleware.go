package proxytrust

import "net/http"

// Middleware wraps next so that every request is evaluated before it is
// served.
//
// Trusted requests reach next with RemoteAddr and Host rewritten. Requests
// rejected in strict mode are answered by the configured ErrorHandler and
// never reach next. Every request that proceeds carries its Decision in the
// request context, see DecisionFromContext.
func (f *Filter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out, decision, err := f.Apply(r)
		if err != nil {
			f.config.errorHandler(w, r, err)
			return
		}

		next.ServeHTTP(w, out.WithContext(NewContext(out.Context(), decision)))
	})
}

// Handler is a convenience for Middleware(next) with a handler function.
func (f *Filter) Handler(next http.HandlerFunc) http.Handler {
	return f.Middleware(next)
}
