// Package gendata produces synthetic test-report CSV files for exercising
// the pipeline: units flow through stations, fail occasionally, visit the
// repair station, and retest.
package gendata

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// Config controls the shape of a generated report file.
type Config struct {
	OutDir        string
	Kind          string // "week" or "month"
	Period        int
	Units         int
	Seed          int64
	FailRate      float64
	RepairStation string
	Stations      []string
	Badges        []string
	ErrorCodes    []string
}

// Defaults mirror a typical line setup.
var (
	defaultStations   = []string{"fto", "runnin", "test4", "disk test"}
	defaultBadges     = []string{"111", "333", "456", "555", "666", "777", "987"}
	defaultErrorCodes = []string{"e101", "e200", "e317", "e404", "e550"}
)

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		OutDir:        ".",
		Kind:          "week",
		Period:        1,
		Units:         20,
		Seed:          1,
		FailRate:      0.25,
		RepairStation: "swap",
		Stations:      defaultStations,
		Badges:        defaultBadges,
		ErrorCodes:    defaultErrorCodes,
	}
}

// FileName returns the report file name for the config.
func (c *Config) FileName() string {
	return fmt.Sprintf("%s_%d_test_report.csv", c.Kind, c.Period)
}

// Run generates one report file and returns its path.
func Run(ctx context.Context, cfg *Config) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("generate cancelled: %w", err)
	}
	if cfg.Kind != "week" && cfg.Kind != "month" {
		return "", fmt.Errorf("unknown kind %q; want week or month", cfg.Kind)
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("out dir: %w", err)
	}
	path := filepath.Join(cfg.OutDir, cfg.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"event_id", "sn", "station", "status", "error_code", "badge"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	eventID := int64(0)
	row := func(sn, station, status, code, badge string) error {
		eventID++
		return w.Write([]string{strconv.FormatInt(eventID, 10), sn, station, status, code, badge})
	}

	// maxRepairs caps episodes per station so a high fail rate still
	// terminates.
	const maxRepairs = 3

	for u := 1; u <= cfg.Units; u++ {
		sn := fmt.Sprintf("mxq%04d", u)
		for _, station := range cfg.Stations {
			repairs := 0
			for {
				if repairs >= maxRepairs || rng.Float64() >= cfg.FailRate {
					if err := row(sn, station, "pass", "", ""); err != nil {
						return "", fmt.Errorf("write row: %w", err)
					}
					break
				}
				code := cfg.ErrorCodes[rng.Intn(len(cfg.ErrorCodes))]
				if err := row(sn, station, "fail", code, ""); err != nil {
					return "", fmt.Errorf("write row: %w", err)
				}
				badge := cfg.Badges[rng.Intn(len(cfg.Badges))]
				if err := row(sn, cfg.RepairStation, "pass", "", badge); err != nil {
					return "", fmt.Errorf("write row: %w", err)
				}
				// Occasionally repeat the same error right after the repair to
				// model an ineffective fix.
				if rng.Float64() < cfg.FailRate/2 {
					if err := row(sn, station, "fail", code, ""); err != nil {
						return "", fmt.Errorf("write row: %w", err)
					}
				}
				repairs++
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}
