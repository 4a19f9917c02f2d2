package main

import (
	"fmt"

	"github.com/abczzz13/proxytrust"
	"github.com/caarlos0/env/v9"
)

// params holds the demo server settings read from the environment.
type params struct {
	Address     string `env:"ADDRESS" envDefault:":8080"`
	TrustedCIDR string `env:"TRUSTED_CIDR" envDefault:"127.0.0.1"`
	IPHeader    string `env:"IP_HEADER" envDefault:"X-Forwarded-For"`
	HostHeader  string `env:"HOST_HEADER" envDefault:"X-Forwarded-Host"`
	Strict      bool   `env:"STRICT" envDefault:"true"`
	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

func parseParams() (params, error) {
	cfg := params{}
	if err := env.Parse(&cfg); err != nil {
		return params{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func parseParamsFrom(environment map[string]string) (params, error) {
	cfg := params{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return params{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func (p params) filterOptions() []proxytrust.Option {
	return []proxytrust.Option{
		proxytrust.TrustedCIDR(p.TrustedCIDR),
		proxytrust.IPHeader(p.IPHeader),
		proxytrust.HostHeader(p.HostHeader),
		proxytrust.Strict(p.Strict),
	}
}
