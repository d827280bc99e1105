package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/random"
)

type BatchRequest struct {
	UserID  string
	Enemies []string
	// Seed derives the seed of every encounter, so a batch replays exactly.
	Seed        int64
	Encounters  int
	Parallelism int
}

// BatchSummary aggregates the encounters of a batch.
type BatchSummary struct {
	Encounters      int
	Won             int
	Lost            int
	Abandoned       int
	TotalRounds     int
	MaxRounds       int
	EnemiesDefeated int
}

// WinRate is the share of encounters won.
func (s BatchSummary) WinRate() float64 {
	if s.Encounters == 0 {
		return 0
	}
	return float64(s.Won) / float64(s.Encounters)
}

// AvgRounds is the mean number of completed rounds per encounter.
func (s BatchSummary) AvgRounds() float64 {
	if s.Encounters == 0 {
		return 0
	}
	return float64(s.TotalRounds) / float64(s.Encounters)
}

var ErrInvalidBatch = errors.New("batch needs positive encounters and parallelism")

// SimulateBatch runs req.Encounters independent encounters, at most
// req.Parallelism at a time. The first failure cancels the rest.
func SimulateBatch(ctx context.Context, deps Deps, req BatchRequest) (BatchSummary, error) {
	if req.Encounters <= 0 || req.Parallelism <= 0 {
		return BatchSummary{}, ErrInvalidBatch
	}
	seeds := deriveSeeds(req.Seed, req.Encounters)
	results := make([]EncounterResult, req.Encounters)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.Parallelism)
	for i := range seeds {
		g.Go(func() error {
			res, err := RunEncounter(gctx, deps, EncounterRequest{
				UserID:  req.UserID,
				Enemies: req.Enemies,
				Seed:    seeds[i],
			})
			if err != nil {
				return fmt.Errorf("encounter %d of %d: %w", i+1, req.Encounters, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BatchSummary{}, err
	}

	var s BatchSummary
	for _, r := range results {
		s.Encounters++
		switch r.Record.Outcome {
		case game.OutcomeWon:
			s.Won++
		case game.OutcomeLost:
			s.Lost++
		case game.OutcomeAbandoned:
			s.Abandoned++
		}
		s.TotalRounds += r.Stats.Rounds
		if r.Stats.Rounds > s.MaxRounds {
			s.MaxRounds = r.Stats.Rounds
		}
		s.EnemiesDefeated += r.Stats.EnemiesDefeated
	}
	return s, nil
}

func deriveSeeds(base int64, n int) []int64 {
	r := random.New(base)
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = r.Int63()
	}
	return seeds
}
