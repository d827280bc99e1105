package engine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// State is the phase a combat is in.
type State string

const (
	StateNotStarted      State = "not_started"
	StateCharacterTurn   State = "character_turn"
	StateEnemyTurn       State = "enemy_turn"
	StateRoundResolution State = "round_resolution"
	StateWon             State = "won"
	StateLost            State = "lost"
)


const (
	eventStart            = "start"
	eventEndCharacterTurn = "end_character_turn"
	eventEndEnemyTurn     = "end_enemy_turn"
	eventNextRound        = "next_round"
	eventWin              = "win"
	eventLose             = "lose"
)

// newCombatFSM builds the combat phase machine. Outcome checks happen
// before a round starts, so win and lose are only reachable from there.
func newCombatFSM(onEnter func(from, to State)) *fsm.FSM {
	checkpoints := []string{string(StateNotStarted), string(StateRoundResolution)}
	return fsm.NewFSM(
		string(StateNotStarted),
		fsm.Events{
			{Name: eventStart, Src: []string{string(StateNotStarted)}, Dst: string(StateCharacterTurn)},
			{Name: eventEndCharacterTurn, Src: []string{string(StateCharacterTurn)}, Dst: string(StateEnemyTurn)},
			{Name: eventEndEnemyTurn, Src: []string{string(StateEnemyTurn)}, Dst: string(StateRoundResolution)},
			{Name: eventNextRound, Src: []string{string(StateRoundResolution)}, Dst: string(StateCharacterTurn)},
			{Name: eventWin, Src: checkpoints, Dst: string(StateWon)},
			{Name: eventLose, Src: checkpoints, Dst: string(StateLost)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				if onEnter != nil {
					onEnter(State(e.Src), State(e.Dst))
				}
			},
		},
	)
}

// transition fires event on the machine. Phase changes are never
// interrupted by cancellation of the caller's context.
func (m *Manager) transition(ctx context.Context, event string) error {
	if err := m.machine.Event(context.WithoutCancel(ctx), event); err != nil {
		return fmt.Errorf("combat %s from %s: %w", event, m.machine.Current(), err)
	}
	return nil
}
