// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// InputDir is scanned for pending report CSV files.
	InputDir string `koanf:"input_dir"`

	// ReportsDir receives the rendered text reports.
	ReportsDir string `koanf:"reports_dir"`

	// ScanIntervalSeconds sets how often InputDir is scanned.
	ScanIntervalSeconds int `koanf:"scan_interval_seconds"`

	// WorkerCount sets the number of report-processing workers.
	WorkerCount int `koanf:"worker_count"`

	// JobQueueSize bounds the in-memory file-job queue.
	JobQueueSize int `koanf:"job_queue_size"`

	// RepairStation names the out-of-flow station where repairs happen.
	RepairStation string `koanf:"repair_station"`

	// StationOrder optionally fixes the station rank map instead of
	// inferring the flow order from each file.
	StationOrder map[string]int `koanf:"station_order"`

	// DeleteProcessed removes input files once their report is written.
	DeleteProcessed bool `koanf:"delete_processed"`

	// MaxRuns bounds how many completed runs are kept for the API.
	MaxRuns int `koanf:"max_runs"`

	// SeenCacheSize bounds the processed-file tracker.
	SeenCacheSize int `koanf:"seen_cache_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		InputDir:            "./data",
		ReportsDir:          "./reports",
		ScanIntervalSeconds: 60,
		WorkerCount:         2,
		JobQueueSize:        1024,
		RepairStation:       "swap",
		DeleteProcessed:     true,
		MaxRuns:             100,
		SeenCacheSize:       10_000,
	}
}
