package main

import (
	"log"
	"net/http"

	"github.com/abczzz13/proxytrust"
	proxytrustprom "github.com/abczzz13/proxytrust/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	cfg, err := parseParams()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}

	logger, err := newZapLogger(cfg.Development)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	opts := append(cfg.filterOptions(),
		proxytrust.WithLogger(zapLogger{sugar: logger.Sugar()}),
		proxytrustprom.WithRegisterer(prometheus.DefaultRegisterer),
		proxytrust.WithErrorHandler(rejectUntrusted(logger)),
	)

	filter, err := proxytrust.New(opts...)
	if err != nil {
		logger.Fatal("build filter", zap.Error(err))
	}

	logger.Info("starting server",
		zap.String("address", cfg.Address),
		zap.Stringer("trusted_range", filter.TrustedRange()),
		zap.Bool("strict", filter.Strict()),
	)

	router := newRouter(filter, prometheus.DefaultGatherer, cfg.MetricsPath)
	if err := http.ListenAndServe(cfg.Address, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
