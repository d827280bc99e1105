package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ericogr/gaia-combat/internal/catalog"
	"github.com/ericogr/gaia-combat/internal/constants"
	"github.com/ericogr/gaia-combat/internal/engine"
	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/keys"
	"github.com/ericogr/gaia-combat/internal/logging"
	"github.com/ericogr/gaia-combat/internal/random"
)

// Catalog is everything an encounter reads. *catalog.Memory implements it.
type Catalog interface {
	catalog.Abilities
	catalog.Enemies
	catalog.Equipment
	Loadout(userID string) (game.Loadout, error)
}

// EncounterStore is the minimal repository interface required to record
// encounters. Using a small interface simplifies testing.
type EncounterStore interface {
	SaveEncounter(r *game.EncounterRecord) error
}

type Deps struct {
	Catalog Catalog
	Store   EncounterStore
	Options engine.Options
	// MessageLevel is the level combat messages are logged at.
	MessageLevel logging.Level
}

type EncounterRequest struct {
	UserID  string
	Enemies []string
	Seed    int64
	// Provider drives the character; nil uses Autopilot.
	Provider engine.ActionProvider
}

type EncounterResult struct {
	Record game.EncounterRecord
	State  engine.State
	Stats  engine.Stats
}

var ErrNoEnemies = errors.New("encounter needs at least one enemy")

// RunEncounter fights one encounter to the end and stores its record.
// Hitting the round cap abandons the encounter without an error; a quit
// abandons it and returns the error after the record is stored.
func RunEncounter(ctx context.Context, deps Deps, req EncounterRequest) (EncounterResult, error) {
	if len(req.Enemies) == 0 {
		return EncounterResult{}, ErrNoEnemies
	}
	loadout, err := deps.Catalog.Loadout(req.UserID)
	if err != nil {
		return EncounterResult{}, err
	}
	character, err := NewCharacter(deps.Catalog, loadout)
	if err != nil {
		return EncounterResult{}, err
	}

	provider := req.Provider
	if provider == nil {
		provider = Autopilot{}
	}
	id := uuid.NewString()
	fields := logging.Fields{
		constants.LogFieldEncounterID: id,
		constants.LogFieldUserID:      req.UserID,
		constants.LogFieldSeed:        req.Seed,
	}
	m, err := engine.NewManager(character, engine.Dependencies{
		Abilities: deps.Catalog,
		Enemies:   deps.Catalog,
		Equipment: deps.Catalog,
		Provider:  provider,
		Sink:      logging.MessageSink{Level: deps.MessageLevel, Fields: fields},
		Rand:      random.New(req.Seed),
	}, deps.Options)
	if err != nil {
		return EncounterResult{}, err
	}
	m.WithLogFields(fields)
	if _, err := m.SpawnEnemies(req.Enemies); err != nil {
		return EncounterResult{}, err
	}

	state, runErr := m.BeginCombat(ctx)
	var outcome game.Outcome
	switch {
	case runErr == nil && state == engine.StateWon:
		outcome = game.OutcomeWon
	case runErr == nil && state == engine.StateLost:
		outcome = game.OutcomeLost
	case errors.Is(runErr, engine.ErrRoundLimit), errors.Is(runErr, engine.ErrQuit):
		outcome = game.OutcomeAbandoned
		if err := m.Abandon(); err != nil {
			return EncounterResult{}, err
		}
		if errors.Is(runErr, engine.ErrRoundLimit) {
			logging.Warn("encounter hit the round cap", logging.Fields{constants.LogFieldEncounterID: id, constants.LogFieldRound: m.Round()})
			runErr = nil
		}
	case runErr != nil:
		return EncounterResult{}, fmt.Errorf("encounter %s: %w", id, errors.Join(runErr, m.Abandon()))
	default:
		return EncounterResult{}, fmt.Errorf("encounter %s stopped in state %s", id, state)
	}

	stats := m.Stats()
	res := EncounterResult{
		State: state,
		Stats: stats,
		Record: game.EncounterRecord{
			EncounterID:     id,
			UserID:          req.UserID,
			EnemyMix:        keys.EnemyMixKey(req.Enemies),
			Outcome:         outcome,
			Seed:            req.Seed,
			Rounds:          stats.Rounds,
			ActionsResolved: stats.ActionsResolved,
			EnemiesDefeated: stats.EnemiesDefeated,
			CharacterHealth: character.Health(),
			LastRoundLog:    m.LastRoundSummary(),
		},
	}
	if deps.Store != nil {
		if err := deps.Store.SaveEncounter(&res.Record); err != nil {
			logging.Error("failed to save encounter", err, logging.Fields{constants.LogFieldEncounterID: id})
			return res, err
		}
	}
	logging.Info("encounter finished", logging.Fields{
		constants.LogFieldEncounterID: id,
		constants.LogFieldOutcome:     string(outcome),
		constants.LogFieldRound:       stats.Rounds,
	})
	return res, runErr
}

// NewCharacter builds a fighting character from a stored loadout with its
// weapon abilities materialized.
func NewCharacter(abilities catalog.Abilities, l game.Loadout) (*game.Character, error) {
	c, err := game.NewCharacter(l.UserID, l.Name, l.MaxHealth, l.WeaponDamage)
	if err != nil {
		return nil, err
	}
	weapon, err := engine.MaterializeKeys(abilities, l.WeaponAbilities)
	if err != nil {
		return nil, fmt.Errorf("weapon of %s: %w", l.UserID, err)
	}
	c.WeaponAbilities = weapon
	return c, nil
}
