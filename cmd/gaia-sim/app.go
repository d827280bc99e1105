package main

import (
	"context"

	"github.com/ericogr/gaia-combat/internal/catalog"
	"github.com/ericogr/gaia-combat/internal/config"
	"github.com/ericogr/gaia-combat/internal/constants"
	"github.com/ericogr/gaia-combat/internal/logging"
	"github.com/ericogr/gaia-combat/internal/random"
	"github.com/ericogr/gaia-combat/internal/storage"
)

func loadSettingsOrExit() config.Settings {
	s, err := config.ParseSettings()
	if err != nil {
		logging.Fatal(constants.ErrFailedLoadSettings, err, nil)
	}
	if s.Seed == 0 {
		seed, err := random.NewSeed()
		if err != nil {
			logging.Fatal(constants.ErrFailedLoadSettings, err, nil)
		}
		s.Seed = seed
	}
	return s
}

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logging.Fatal(constants.ErrFailedLoadConfig, err, logging.Fields{constants.LogFieldPath: path})
	}
	return cfg
}

// createRepositoryOrExit opens the database, seeds an empty catalog and
// upserts the configured loadouts.
func createRepositoryOrExit(dbPath string, cfg *config.LoadedConfig) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath, storage.Seed{Abilities: cfg.Abilities, Enemies: cfg.Enemies})
	if err != nil {
		logging.Fatal(constants.ErrFailedOpenDB, err, logging.Fields{constants.LogFieldPath: dbPath})
	}
	repo := storage.NewSQLiteRepository(db, dbPath)
	for i := range cfg.Loadouts {
		if err := repo.UpsertLoadout(&cfg.Loadouts[i]); err != nil {
			logging.Fatal(constants.ErrFailedOpenDB, err, logging.Fields{constants.LogFieldUserID: cfg.Loadouts[i].UserID})
		}
	}
	return repo
}

func snapshotOrExit(ctx context.Context, repo storage.Repository) *catalog.Memory {
	cat, err := repo.Snapshot(ctx)
	if err != nil {
		logging.Fatal(constants.ErrFailedOpenDB, err, nil)
	}
	return cat
}

// pickEncounter returns the enemies of the named encounter, or of the first
// configured one when name is empty.
func pickEncounter(cfg *config.LoadedConfig, name string) (config.Encounter, bool) {
	if name != "" {
		return cfg.Encounter(name)
	}
	if len(cfg.Encounters) == 0 {
		return config.Encounter{}, false
	}
	return cfg.Encounters[0], true
}
