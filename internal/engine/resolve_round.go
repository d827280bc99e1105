package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/gaia-combat/internal/constants"
	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/logging"
)

// characterTurn expires the character's effects and queues up to
// MaxPlayerActionsPerRound actions from the provider.
func (m *Manager) characterTurn(ctx context.Context) error {
	if err := m.effects.DecrementCharacter(); err != nil {
		return err
	}
	expired, err := m.effects.RemoveFinishedCharacter(m.character)
	if err != nil {
		return err
	}
	for _, a := range expired {
		m.rc.addf("%s wears off %s", a, m.character.Name)
	}

	parryQueued := false
	for taken := 0; taken < m.opts.MaxPlayerActionsPerRound; {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrQuit, err)
		}
		action, err := m.deps.Provider.NextAction(ctx, m.turnView(taken, parryQueued))
		if err == nil {
			err = m.validate(action, parryQueued)
		}
		switch {
		case err == nil:
		case errors.Is(err, ErrEndTurn):
			return nil
		case IsValidation(err):
			m.stats.InvalidActions++
			logging.Warn(err.Error(), m.fields(logging.Fields{constants.LogFieldRound: m.round}))
			continue
		case ctx.Err() != nil && !errors.Is(err, ErrQuit):
			return fmt.Errorf("%w: %w", ErrQuit, err)
		default:
			return err
		}
		if _, ok := action.Action.(game.ParryAction); ok {
			parryQueued = true
		}
		m.queue = append(m.queue, action)
		taken++
	}
	return nil
}

func (m *Manager) turnView(taken int, parryQueued bool) TurnView {
	return TurnView{
		Round:            m.round,
		ActionsTaken:     taken,
		ActionsRemaining: m.opts.MaxPlayerActionsPerRound - taken,
		ParryQueued:      parryQueued,
		Character:        m.character,
		Effects:          m.effects.CharacterEffects(),
		Enemies:          m.Enemies(),
		Grid:             m.grid,
	}
}

// validate rejects character actions that cannot be queued. Every failure
// is recoverable.
func (m *Manager) validate(action game.CombatAction, parryQueued bool) error {
	if _, ok := action.Sender.(game.CharacterRef); !ok {
		return Invalidf(ErrWrongSender, "sender %v", action.Sender)
	}
	switch act := action.Action.(type) {
	case game.AttackAction:
		if action.Target == nil {
			return Invalid(ErrNoTargetSelected)
		}
		if act.Damage <= 0 && len(act.Companions) == 0 {
			return Invalid(ErrNoWeaponSelected)
		}
		if ref, ok := action.Target.(game.EnemyRef); ok {
			if _, live := m.enemies[ref.ID]; !live {
				return Invalidf(ErrNoTargetSelected, "%s", ref)
			}
		}
	case game.ParryAction:
		if parryQueued {
			return Invalid(ErrDuplicateParry)
		}
		if act.Threshold <= 0 || act.Reflection < 0 {
			return Invalidf(game.ErrInvalidParry, "threshold %.2f reflection %.2f", act.Threshold, act.Reflection)
		}
	case game.HealAction:
		if action.Target == nil {
			return Invalid(ErrNoTargetSelected)
		}
		if act.Amount < 0 {
			return Invalidf(game.ErrNegativeHeal, "%.2f", act.Amount)
		}
	default:
		return fmt.Errorf("validate %T: %w", action.Action, ErrUnknownAbilityType)
	}
	return nil
}

// enemyTurn expires enemy effects, then lets every enemy on the grid decide
// and queue one action.
func (m *Manager) enemyTurn() error {
	enemies := m.Enemies()
	for _, e := range enemies {
		if err := m.effects.DecrementEnemy(e.ID); err != nil {
			return err
		}
		expired, err := m.effects.RemoveFinishedEnemy(e)
		if err != nil {
			return err
		}
		for _, a := range expired {
			m.rc.addf("%s wears off %s", a, e.Name)
		}
	}
	characterIgnite, err := m.effects.RemainingIgniteDuration(game.CharacterRef{})
	if err != nil {
		return err
	}
	for _, e := range enemies {
		ownIgnite, err := m.effects.RemainingIgniteDuration(e.Ref())
		if err != nil {
			return err
		}
		e.RefreshOffensiveness()
		aggr := e.CalculateAggressiveness(ownIgnite, &m.character.FightingEntity, characterIgnite, m.deps.Rand)
		name, err := e.ChooseActionName()
		if err != nil {
			return err
		}
		action, err := e.BuildAction(name)
		if err != nil {
			return err
		}
		logging.Debug("enemy decided", m.fields(logging.Fields{
			constants.LogFieldRound: m.round, constants.LogFieldEnemy: e.Name, "aggressiveness": aggr, "action": string(name), "effects": len(m.effects.EnemyEffects(e.ID)),
		}))
		m.queue = append(m.queue, action)
	}
	return nil
}

// resolveRound drains the queue in order, ticks ongoing damage, removes
// fallen enemies and advances the round counter.
func (m *Manager) resolveRound() error {
	queue := m.queue
	m.queue = nil
	for _, action := range queue {
		sender, ok := m.lookup(action.Sender)
		if !ok || !sender.IsAlive() {
			m.rc.addf("%s is skipped: sender is gone", action.Action.Name())
			continue
		}
		var target *game.FightingEntity
		if action.Target != nil {
			if t, ok := m.lookup(action.Target); ok && t.IsAlive() {
				target = t
			}
		}
		msg, err := ResolveAction(action, sender, target, m)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", action, err)
		}
		m.stats.ActionsResolved++
		m.rc.add(msg)
	}

	if err := m.tick(&m.character.FightingEntity); err != nil {
		return err
	}
	for _, e := range m.Enemies() {
		if !e.IsAlive() {
			continue
		}
		if err := m.tick(&e.FightingEntity); err != nil {
			return err
		}
	}

	for _, e := range m.Enemies() {
		if e.IsAlive() {
			continue
		}
		if err := m.grid.Clear(e.Position); err != nil {
			return err
		}
		m.effects.DropEnemy(e.ID)
		delete(m.enemies, e.ID)
		m.stats.EnemiesDefeated++
		m.rc.addf("%s is defeated", e.Name)
	}

	m.stats.Rounds = m.round
	m.lastSummary = m.rc.joinSummary()
	m.round++
	m.rc = newRoundContext(m.round, m.deps.Sink)
	return nil
}

func (m *Manager) tick(e *game.FightingEntity) error {
	dealt, err := e.InflictActiveEffects()
	if err != nil {
		return err
	}
	if dealt > 0 {
		m.rc.addf("%s burns for %.1f", e.Name, dealt)
	}
	return nil
}

func (m *Manager) fields(extra logging.Fields) logging.Fields {
	out := logging.Fields{}
	for k, v := range m.logFields {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
