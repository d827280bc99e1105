package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericogr/gaia-combat/internal/constants"
	"github.com/ericogr/gaia-combat/internal/engine"
	"github.com/ericogr/gaia-combat/internal/logging"
	"github.com/ericogr/gaia-combat/internal/service"
	"github.com/ericogr/gaia-combat/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "print build info and exit")
	history := flag.Int("history", 0, "log the last N stored encounters of the user after the batch")
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}

	settings := loadSettingsOrExit()
	logging.SetLevel(logging.ParseLevel(settings.LogLevel))

	cfg := loadConfigOrExit(settings.ConfigPath)
	enc, ok := pickEncounter(cfg, settings.Encounter)
	if !ok {
		logging.Fatal(constants.ErrFailedLoadConfig, errors.New("no such encounter"), logging.Fields{"encounter": settings.Encounter, "hint": "set " + constants.EnvEncounter + " to a name from the 'encounters' list"})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo := createRepositoryOrExit(settings.DBPath, cfg)
	cat := snapshotOrExit(ctx, repo)

	opts := engine.DefaultOptions()
	opts.GridWidth = cfg.GridWidth
	opts.GridHeight = cfg.GridHeight
	opts.MaxPlayerActionsPerRound = cfg.MaxPlayerActions
	opts.MaxRounds = settings.MaxRounds

	deps := service.Deps{Catalog: cat, Store: repo, Options: opts}
	// a single encounter is narrated; batches only log it at debug
	if settings.Encounters == 1 {
		deps.MessageLevel = logging.LevelInfo
	}

	logging.Info("simulation started", logging.Fields{
		constants.LogFieldUserID: settings.UserID,
		constants.LogFieldSeed:   settings.Seed,
		constants.LogFieldCount:  settings.Encounters,
		"encounter":              enc.Name,
	})
	summary, err := service.SimulateBatch(ctx, deps, service.BatchRequest{
		UserID:      settings.UserID,
		Enemies:     enc.Enemies,
		Seed:        settings.Seed,
		Encounters:  settings.Encounters,
		Parallelism: settings.Parallelism,
	})
	if err != nil {
		logging.Fatal(constants.ErrFailedSimulation, err, logging.Fields{constants.LogFieldSeed: settings.Seed})
	}
	logging.Info("simulation finished", logging.Fields{
		constants.LogFieldCount: summary.Encounters,
		"won":                   summary.Won,
		"lost":                  summary.Lost,
		"abandoned":             summary.Abandoned,
		"win_rate":              summary.WinRate(),
		"avg_rounds":            summary.AvgRounds(),
		"max_rounds":            summary.MaxRounds,
		"enemies_defeated":      summary.EnemiesDefeated,
	})

	totals, err := repo.OutcomeCounts(settings.UserID)
	if err != nil {
		logging.Error("failed to read outcome totals", err, nil)
	} else {
		logging.Info("all-time outcomes", logging.Fields{constants.LogFieldUserID: settings.UserID, "totals": totals})
	}
	if *history > 0 {
		loadout, err := repo.GetLoadout(settings.UserID)
		if err != nil {
			logging.Error("failed to read loadout", err, logging.Fields{constants.LogFieldUserID: settings.UserID})
			return
		}
		logging.Info("history", logging.Fields{
			constants.LogFieldUserID: loadout.UserID,
			"character":              loadout.Name,
			"weapon_abilities":       loadout.WeaponAbilities,
			"equipped_abilities":     loadout.EquippedAbilities,
		})
		recent, err := repo.ListEncounters(settings.UserID, *history)
		if err != nil {
			logging.Error("failed to list encounters", err, nil)
			return
		}
		for _, r := range recent {
			logging.Info("encounter", logging.Fields{
				constants.LogFieldEncounterID: r.EncounterID,
				constants.LogFieldOutcome:     string(r.Outcome),
				constants.LogFieldRound:       r.Rounds,
				"enemy_mix":                   r.EnemyMix,
			})
		}
	}
}
