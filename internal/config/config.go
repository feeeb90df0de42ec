// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server reads from its environment.
type Config struct {
	Port     int    `env:"TRIBELANDS_PORT" envDefault:"8080"`
	DBPath   string `env:"TRIBELANDS_DB_PATH" envDefault:"data/tribelands.db"`
	AdminKey string `env:"TRIBELANDS_ADMIN_KEY"`

	// Seed of 0 picks a random one on first bootstrap.
	Seed int64 `env:"TRIBELANDS_SEED" envDefault:"0"`

	MapRadius int `env:"TRIBELANDS_MAP_RADIUS" envDefault:"20"`
	AITribes  int `env:"TRIBELANDS_AI_TRIBES" envDefault:"4"`

	// TurnInterval is the wall-clock deadline between automatic resolutions.
	TurnInterval   time.Duration `env:"TRIBELANDS_TURN_INTERVAL" envDefault:"10m"`
	ResolveTimeout time.Duration `env:"TRIBELANDS_RESOLVE_TIMEOUT" envDefault:"30s"`

	// CatalogDir overrides the embedded tech/asset catalogs when set.
	CatalogDir string `env:"TRIBELANDS_CATALOG_DIR"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MapRadius < 4 {
		return cfg, fmt.Errorf("map radius %d too small, need at least 4", cfg.MapRadius)
	}
	if cfg.TurnInterval <= 0 {
		return cfg, fmt.Errorf("turn interval must be positive")
	}
	return cfg, nil
}
