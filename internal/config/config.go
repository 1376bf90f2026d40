// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment vars.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ArchiveDBPath is the SQLite database file holding annotation
	// archives.
	ArchiveDBPath string `koanf:"archive_db_path"`

	// MaxLayers caps the stacking layer count of one segment;
	// 0 means unlimited.
	MaxLayers int `koanf:"max_layers"`

	// IngestQueueSize bounds the in-memory machine-output batch queue.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// IngestWorkerCount sets the number of normalization workers.
	IngestWorkerCount int `koanf:"ingest_worker_count"`

	// FrameInterval is the default classifier sampling stride, used as
	// the nearest-sample search tolerance.
	FrameInterval int `koanf:"frame_interval"`

	// MaxWindowSeconds caps the span of a label window query.
	MaxWindowSeconds float64 `koanf:"max_window_seconds"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		ArchiveDBPath:     "glossa.db",
		MaxLayers:         0,
		IngestQueueSize:   1024,
		IngestWorkerCount: runtime.NumCPU(),
		FrameInterval:     1,
		MaxWindowSeconds:  3600,
	}
}
