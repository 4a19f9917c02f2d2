package main

import (
	"encoding/json"
	"net/http"

	"github.com/abczzz13/proxytrust"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type whoamiResponse struct {
	RemoteAddr string   `json:"remote_addr"`
	Host       string   `json:"host"`
	Outcome    string   `json:"outcome"`
	Chain      []string `json:"chain,omitempty"`
}

func newRouter(filter *proxytrust.Filter, gatherer prometheus.Gatherer, metricsPath string) chi.Router {
	r := chi.NewRouter()

	if metricsPath != "" {
		r.Handle(metricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(filter.Middleware)
		r.Get("/whoami", whoami)
	})

	return r
}

func whoami(w http.ResponseWriter, r *http.Request) {
	resp := whoamiResponse{
		RemoteAddr: r.RemoteAddr,
		Host:       r.Host,
	}
	if decision, ok := proxytrust.DecisionFromContext(r.Context()); ok {
		resp.Outcome = decision.Outcome.String()
		resp.Chain = decision.Chain
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// rejectUntrusted answers strict-mode rejections and logs them.
func rejectUntrusted(logger *zap.Logger) proxytrust.ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Info("rejected request", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
	}
}
