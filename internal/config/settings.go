package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/ericogr/gaia-combat/internal/constants"
)

// Settings are the process-level knobs read from the environment.
type Settings struct {
	ConfigPath  string `env:"GAIA_CONFIG"      envDefault:"gaia_config.yaml"`
	DBPath      string `env:"GAIA_DB"          envDefault:"gaia.db"`
	Seed        int64  `env:"GAIA_SEED"`
	Encounters  int    `env:"GAIA_ENCOUNTERS"  envDefault:"1"`
	Parallelism int    `env:"GAIA_PARALLELISM" envDefault:"4"`
	MaxRounds   int    `env:"GAIA_MAX_ROUNDS"  envDefault:"200"`
	UserID      string `env:"GAIA_USER"        envDefault:"player"`
	Encounter   string `env:"GAIA_ENCOUNTER"`
	LogLevel    string `env:"GAIA_LOG_LEVEL"   envDefault:"info"`
}

// ParseSettings loads Settings from the environment. A zero seed means the
// caller should draw a fresh one.
func ParseSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.Encounters <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %d", constants.EnvEncounters, s.Encounters)
	}
	if s.Parallelism <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive, got %d", constants.EnvParallelism, s.Parallelism)
	}
	if s.MaxRounds < 0 {
		return Settings{}, fmt.Errorf("%s must not be negative, got %d", constants.EnvMaxRounds, s.MaxRounds)
	}
	return s, nil
}
