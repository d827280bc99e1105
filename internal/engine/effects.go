package engine

import (
	"errors"
	"fmt"

	"github.com/ericogr/gaia-combat/internal/catalog"
	"github.com/ericogr/gaia-combat/internal/game"
)

// ActiveEffect is an applied ability together with the rounds it has left.
type ActiveEffect struct {
	Remaining game.Rounds
	Ability   game.AbilityAction
}

func NewActiveEffect(a game.AbilityAction) *ActiveEffect {
	return &ActiveEffect{Remaining: a.Duration(), Ability: a}
}

// Decrement removes one round. Permanent and finished effects fail.
func (e *ActiveEffect) Decrement() error {
	n, ok := e.Remaining.Get()
	if !ok {
		return fmt.Errorf("%s: %w", e.Ability, ErrPermanentEffect)
	}
	if n-1 < 0 {
		return fmt.Errorf("%s: %w", e.Ability, ErrEffectFinished)
	}
	e.Remaining = game.For(n - 1)
	return nil
}

// Finished reports whether a bounded effect has run out.
func (e *ActiveEffect) Finished() bool {
	n, ok := e.Remaining.Get()
	return ok && n == 0
}

// EffectManager owns every active effect in a combat: one ordered list for
// the character and one per enemy.
type EffectManager struct {
	character []*ActiveEffect
	enemies   map[game.EnemyID][]*ActiveEffect
}

func NewEffectManager() *EffectManager {
	return &EffectManager{enemies: make(map[game.EnemyID][]*ActiveEffect)}
}

func (m *EffectManager) ApplyToCharacter(c *game.Character, a game.AbilityAction) error {
	list, err := applyEffect(&c.FightingEntity, m.character, a)
	m.character = list
	return err
}

func (m *EffectManager) ApplyToEnemy(e *game.FightingEnemy, a game.AbilityAction) error {
	list, err := applyEffect(&e.FightingEntity, m.enemies[e.ID], a)
	m.enemies[e.ID] = list
	return err
}

// applyEffect applies a to target and records it. A unique ability refreshes
// an active unique effect of the same kind instead of stacking; non-unique
// and permanent effects of that kind are left alone.
func applyEffect(target *game.FightingEntity, list []*ActiveEffect, a game.AbilityAction) ([]*ActiveEffect, error) {
	if a.IsUnique() {
		for _, existing := range list {
			if !existing.Ability.IsUnique() || existing.Ability.Kind() != a.Kind() {
				continue
			}
			if err := target.RemoveAbility(existing.Ability); err != nil {
				return list, err
			}
			if err := target.ApplyAbility(a); err != nil {
				// keep the entity in step with the effect list
				if rerr := target.ApplyAbility(existing.Ability); rerr != nil {
					return list, errors.Join(err, rerr)
				}
				return list, err
			}
			existing.Ability = a
			existing.Remaining = a.Duration()
			return list, nil
		}
	}
	if err := target.ApplyAbility(a); err != nil {
		return list, err
	}
	return append(list, NewActiveEffect(a)), nil
}

func (m *EffectManager) DecrementCharacter() error {
	return decrementAll(m.character)
}

func (m *EffectManager) DecrementEnemy(id game.EnemyID) error {
	return decrementAll(m.enemies[id])
}

// decrementAll skips permanent effects and effects that already finished
// but have not been removed yet.
func decrementAll(list []*ActiveEffect) error {
	for _, e := range list {
		if e.Remaining.IsPermanent() || e.Finished() {
			continue
		}
		if err := e.Decrement(); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFinishedCharacter reverts and drops every finished character effect.
func (m *EffectManager) RemoveFinishedCharacter(c *game.Character) ([]game.AbilityAction, error) {
	list, expired, err := removeFinished(&c.FightingEntity, m.character)
	m.character = list
	return expired, err
}

func (m *EffectManager) RemoveFinishedEnemy(e *game.FightingEnemy) ([]game.AbilityAction, error) {
	list, expired, err := removeFinished(&e.FightingEntity, m.enemies[e.ID])
	m.enemies[e.ID] = list
	return expired, err
}

// removeFinished partitions list in a single pass. A flag-style status
// (ignite, pierce, parry) stays set while another effect of the same kind
// is still active, and takes that effect's parameters back.
func removeFinished(target *game.FightingEntity, list []*ActiveEffect) ([]*ActiveEffect, []game.AbilityAction, error) {
	kept := make([]*ActiveEffect, 0, len(list))
	var expired []*ActiveEffect
	for _, e := range list {
		if e.Finished() {
			expired = append(expired, e)
		} else {
			kept = append(kept, e)
		}
	}
	removed := make([]game.AbilityAction, 0, len(expired))
	for i, e := range expired {
		if isFlagKind(e.Ability.Kind()) {
			if other := lastOfKind(kept, e.Ability.Kind()); other != nil {
				if err := target.ApplyAbility(other.Ability); err != nil {
					return append(kept, expired[i:]...), removed, err
				}
				removed = append(removed, e.Ability)
				continue
			}
		}
		if err := target.RemoveAbility(e.Ability); err != nil {
			// keep what was not reverted so the state stays consistent
			return append(kept, expired[i:]...), removed, err
		}
		removed = append(removed, e.Ability)
	}
	return kept, removed, nil
}

func isFlagKind(k game.AbilityKind) bool {
	return k == game.KindIgnite || k == game.KindPierce || k == game.KindParry
}

func lastOfKind(list []*ActiveEffect, k game.AbilityKind) *ActiveEffect {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Ability.Kind() == k {
			return list[i]
		}
	}
	return nil
}

// DropEnemy forgets an enemy's effects without reverting them. Used when
// the enemy leaves the combat.
func (m *EffectManager) DropEnemy(id game.EnemyID) {
	delete(m.enemies, id)
}

// ForceRemoveAll reverts every effect, permanent ones included. Called when
// a combat ends.
func (m *EffectManager) ForceRemoveAll(c *game.Character, enemies map[game.EnemyID]*game.FightingEnemy) error {
	for _, e := range m.character {
		if err := c.RemoveAbility(e.Ability); err != nil {
			return err
		}
	}
	m.character = nil
	for id, list := range m.enemies {
		if enemy, ok := enemies[id]; ok {
			for _, e := range list {
				if err := enemy.RemoveAbility(e.Ability); err != nil {
					return err
				}
			}
		}
		delete(m.enemies, id)
	}
	return nil
}

// RemainingIgniteDuration returns the rounds left on the entity's ignite
// effect, 0 when it has none. A permanent ignite counts as a full
// IgniteDuration.
func (m *EffectManager) RemainingIgniteDuration(ref game.EntityRef) (int, error) {
	var list []*ActiveEffect
	switch r := ref.(type) {
	case game.CharacterRef:
		list = m.character
	case game.EnemyRef:
		list = m.enemies[r.ID]
	case game.EmptyTileRef:
		return 0, nil
	default:
		return 0, fmt.Errorf("%v: %w", ref, ErrUnknownEntity)
	}
	var ignite *ActiveEffect
	for _, e := range list {
		if e.Ability.Kind() != game.KindIgnite {
			continue
		}
		if ignite != nil {
			return 0, fmt.Errorf("%s: %w", ref, ErrMultipleIgniteEffects)
		}
		ignite = e
	}
	if ignite == nil {
		return 0, nil
	}
	if n, ok := ignite.Remaining.Get(); ok {
		return n, nil
	}
	return game.IgniteDuration, nil
}

// CharacterEffects returns a copy of the character's effects in order.
func (m *EffectManager) CharacterEffects() []ActiveEffect {
	return copyEffects(m.character)
}

func (m *EffectManager) EnemyEffects(id game.EnemyID) []ActiveEffect {
	return copyEffects(m.enemies[id])
}

func copyEffects(list []*ActiveEffect) []ActiveEffect {
	out := make([]ActiveEffect, len(list))
	for i, e := range list {
		out[i] = *e
	}
	return out
}

// --- Catalog materialization -------------------------------------------

// Materialize turns a catalog ability into its AbilityAction.
func Materialize(rec game.Ability) (game.AbilityAction, error) {
	st := game.Stacking{Rounds: game.Permanent, Unique: rec.Unique}
	if rec.Duration != nil {
		st.Rounds = game.For(*rec.Duration)
	}
	switch rec.Type {
	case game.KindIgnite:
		return game.IgniteAbility{Stacking: st}, nil
	case game.KindPierce:
		return game.PierceAbility{Stacking: st}, nil
	case game.KindParry:
		return game.ParryAbility{Stacking: st, Threshold: rec.Threshold, Reflection: rec.Reflection}, nil
	case game.KindDefend:
		return game.DefendAbility{Stacking: st, Resistance: rec.Amount}, nil
	case game.KindWeaken:
		return game.WeakenAbility{Stacking: st, Vulnerability: rec.Amount}, nil
	case game.KindHeal:
		return game.HealAbility{Stacking: st, Amount: rec.Amount}, nil
	default:
		return nil, fmt.Errorf("ability %q type %q: %w", rec.Key, rec.Type, ErrUnknownAbilityType)
	}
}

// MaterializeKeys looks up and materializes every key in order.
func MaterializeKeys(abilities catalog.Abilities, keys []string) ([]game.AbilityAction, error) {
	out := make([]game.AbilityAction, 0, len(keys))
	for _, k := range keys {
		rec, err := abilities.Ability(k)
		if err != nil {
			return nil, err
		}
		a, err := Materialize(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
