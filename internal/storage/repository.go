package storage

import (
	"context"

	"github.com/ericogr/gaia-combat/internal/catalog"
	"github.com/ericogr/gaia-combat/internal/game"
)

type Repository interface {
	// Snapshot loads the whole catalog into memory. Concurrent callers
	// share one load.
	Snapshot(ctx context.Context) (*catalog.Memory, error)
	GetLoadout(userID string) (*game.Loadout, error)
	UpsertLoadout(l *game.Loadout) error
	SaveEncounter(r *game.EncounterRecord) error
	// ListEncounters returns the newest encounters of a user first.
	ListEncounters(userID string, limit int) ([]game.EncounterRecord, error)
	// OutcomeCounts tallies a user's encounters by outcome.
	OutcomeCounts(userID string) (map[game.Outcome]int64, error)
}
