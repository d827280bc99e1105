package service

import (
	"context"

	"github.com/ericogr/gaia-combat/internal/engine"
	"github.com/ericogr/gaia-combat/internal/game"
)

// Autopilot defaults.
const (
	DefaultParryBelow      = 0.4
	DefaultParryThreshold  = 10
	DefaultParryReflection = 0.5
)

// Autopilot plays the character without input: it parries once per turn
// while health is below ParryBelow of its maximum and otherwise swings the
// weapon at the weakest enemy. Zero fields use the defaults.
type Autopilot struct {
	ParryBelow      float64
	ParryThreshold  float64
	ParryReflection float64
}

func (a Autopilot) NextAction(ctx context.Context, view engine.TurnView) (game.CombatAction, error) {
	if err := ctx.Err(); err != nil {
		return game.CombatAction{}, err
	}
	c := view.Character
	below, threshold, reflection := a.ParryBelow, a.ParryThreshold, a.ParryReflection
	if below <= 0 {
		below = DefaultParryBelow
	}
	if threshold <= 0 {
		threshold = DefaultParryThreshold
	}
	if reflection <= 0 {
		reflection = DefaultParryReflection
	}

	if !view.ParryQueued && c.Health() < below*c.MaxHealth() && !hasStance(view.Effects, threshold) {
		return game.CombatAction{
			Sender: game.CharacterRef{},
			Action: game.ParryAction{Threshold: threshold, Reflection: reflection},
		}, nil
	}

	target := weakest(view.Enemies)
	swing := c.Attack()
	if target == nil || (swing.Damage <= 0 && len(swing.Companions) == 0) {
		return game.CombatAction{}, engine.ErrEndTurn
	}
	return game.CombatAction{Sender: game.CharacterRef{}, Target: target.Ref(), Action: swing}, nil
}

// hasStance reports whether an active parry already absorbs at least
// threshold.
func hasStance(effects []engine.ActiveEffect, threshold float64) bool {
	for _, e := range effects {
		if p, ok := e.Ability.(game.ParryAbility); ok && p.Threshold >= threshold {
			return true
		}
	}
	return false
}

// weakest returns the live enemy with the least health, the first in grid
// order on ties.
func weakest(enemies []*game.FightingEnemy) *game.FightingEnemy {
	var best *game.FightingEnemy
	for _, e := range enemies {
		if !e.IsAlive() {
			continue
		}
		if best == nil || e.Health() < best.Health() {
			best = e
		}
	}
	return best
}
