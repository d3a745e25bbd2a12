package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TECHPERF_CONFIG is set
//  3. env (prefix TECHPERF_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TECHPERF_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: TECHPERF_ADDR, TECHPERF_WORKER_COUNT, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("TECHPERF_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "techperf_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.InputDir == "":
		return fmt.Errorf("%w: input_dir must not be empty", ErrInvalidConfig)
	case c.ReportsDir == "":
		return fmt.Errorf("%w: reports_dir must not be empty", ErrInvalidConfig)
	case c.RepairStation == "":
		return fmt.Errorf("%w: repair_station must not be empty", ErrInvalidConfig)
	case c.ScanIntervalSeconds < 1:
		return fmt.Errorf("%w: scan_interval_seconds must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	return nil
}
