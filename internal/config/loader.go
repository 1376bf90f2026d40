package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if GLOSSA_CONFIG is set
//  3. env (prefix GLOSSA_)
//
// A local .env file, if present, is loaded into the environment first.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load() // best-effort: load .env if present

	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv("GLOSSA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GLOSSA_ADDR, GLOSSA_MAX_LAYERS, ...
	// Map env keys like GLOSSA_MAX_LAYERS -> max_layers (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GLOSSA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "glossa_")
		return s
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
	case c.ArchiveDBPath == "":
		return fmt.Errorf("%w: archive_db_path must not be empty", ErrInvalidConfig)
	case c.MaxLayers < 0:
		return fmt.Errorf("%w: max_layers must not be negative", ErrInvalidConfig)
	case c.IngestQueueSize <= 0:
		return fmt.Errorf("%w: ingest_queue_size must be positive", ErrInvalidConfig)
	case c.IngestWorkerCount <= 0:
		return fmt.Errorf("%w: ingest_worker_count must be positive", ErrInvalidConfig)
	case c.FrameInterval <= 0:
		return fmt.Errorf("%w: frame_interval must be positive", ErrInvalidConfig)
	case c.MaxWindowSeconds <= 0:
		return fmt.Errorf("%w: max_window_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}
