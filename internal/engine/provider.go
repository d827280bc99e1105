package engine

import (
	"context"

	"github.com/ericogr/gaia-combat/internal/game"
)

// TurnView is what an ActionProvider sees when asked for the next
// character action. The pointers are live combat state and must be treated
// as read-only.
type TurnView struct {
	Round            int
	ActionsTaken     int
	ActionsRemaining int
	ParryQueued      bool
	Character        *game.Character
	Enemies          []*game.FightingEnemy
	Grid             *PlacementGrid
	// Effects are copies of the character's active effects.
	Effects []ActiveEffect
}

// ActionProvider supplies the character's actions. It may block until the
// player decides. Returning ErrEndTurn ends the turn early, ErrQuit (or a
// context error) abandons the combat, and a ValidationError re-prompts.
type ActionProvider interface {
	NextAction(ctx context.Context, view TurnView) (game.CombatAction, error)
}

// MessageSink receives human-readable combat messages as they happen.
type MessageSink interface {
	Publish(msg string)
}

type discardSink struct{}

func (discardSink) Publish(string) {}
