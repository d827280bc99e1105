package engine

import (
	"errors"
	"testing"

	"github.com/ericogr/gaia-combat/internal/catalog"
	"github.com/ericogr/gaia-combat/internal/game"
)

func newCharacter(t *testing.T) *game.Character {
	t.Helper()
	c, err := game.NewCharacter("u1", "Hero", 100, 10)
	if err != nil {
		t.Fatalf("new character: %v", err)
	}
	return c
}

func TestActiveEffect_Decrement(t *testing.T) {
	e := NewActiveEffect(game.IgniteAbility{Stacking: game.Stacking{Rounds: game.For(1)}})
	if err := e.Decrement(); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if !e.Finished() {
		t.Fatalf("expected finished after 1 decrement")
	}
	if err := e.Decrement(); !errors.Is(err, ErrEffectFinished) {
		t.Fatalf("expected ErrEffectFinished, got %v", err)
	}
	if n, _ := e.Remaining.Get(); n != 0 {
		t.Fatalf("remaining went negative: %d", n)
	}

	perm := NewActiveEffect(game.DefendAbility{Resistance: 0.2})
	if err := perm.Decrement(); !errors.Is(err, ErrPermanentEffect) {
		t.Fatalf("expected ErrPermanentEffect, got %v", err)
	}
	if perm.Finished() {
		t.Fatalf("permanent effect must never finish")
	}
}

func TestEffectManager_RemoveFinishedDoesNotSkip(t *testing.T) {
	c := newCharacter(t)
	m := NewEffectManager()
	one := game.Stacking{Rounds: game.For(1)}
	for _, a := range []game.AbilityAction{
		game.DefendAbility{Stacking: one, Resistance: 0.1},
		game.DefendAbility{Stacking: one, Resistance: 0.2},
		game.WeakenAbility{Stacking: game.Stacking{Rounds: game.For(3)}, Vulnerability: 0.05},
		game.DefendAbility{Stacking: one, Resistance: 0.3},
	} {
		if err := m.ApplyToCharacter(c, a); err != nil {
			t.Fatalf("apply: %v", err)
		}
	}
	if err := m.DecrementCharacter(); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	expired, err := m.RemoveFinishedCharacter(c)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(expired) != 3 {
		t.Fatalf("expected 3 expired, got %d", len(expired))
	}
	left := m.CharacterEffects()
	if len(left) != 1 || left[0].Ability.Kind() != game.KindWeaken {
		t.Fatalf("expected only weaken left, got %v", left)
	}
	if d := c.DamageResistance + 0.05; d > 1e-9 || d < -1e-9 {
		t.Fatalf("expected resistance -0.05, got %v", c.DamageResistance)
	}
}

func TestEffectManager_DecrementSkipsPermanent(t *testing.T) {
	c := newCharacter(t)
	m := NewEffectManager()
	_ = m.ApplyToCharacter(c, game.DefendAbility{Resistance: 0.5})
	_ = m.ApplyToCharacter(c, game.PierceAbility{Stacking: game.Stacking{Rounds: game.For(2)}})
	for i := 0; i < 5; i++ {
		if err := m.DecrementCharacter(); err != nil {
			t.Fatalf("decrement %d: %v", i, err)
		}
	}
	if _, err := m.RemoveFinishedCharacter(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if c.IsPierced || c.DamageResistance != 0.5 {
		t.Fatalf("expected pierce gone and defend kept, got pierced=%v res=%v", c.IsPierced, c.DamageResistance)
	}
}

func TestEffectManager_FlagKeptWhileAnotherRemains(t *testing.T) {
	c := newCharacter(t)
	m := NewEffectManager()
	_ = m.ApplyToCharacter(c, game.PierceAbility{Stacking: game.Stacking{Rounds: game.For(1)}})
	_ = m.ApplyToCharacter(c, game.PierceAbility{Stacking: game.Stacking{Rounds: game.For(2)}})
	_ = m.DecrementCharacter()
	if _, err := m.RemoveFinishedCharacter(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !c.IsPierced {
		t.Fatalf("pierce must stay while another pierce effect is active")
	}
	_ = m.DecrementCharacter()
	_, _ = m.RemoveFinishedCharacter(c)
	if c.IsPierced {
		t.Fatalf("pierce must clear once the last effect expires")
	}
}

func TestEffectManager_UniqueRefreshes(t *testing.T) {
	c := newCharacter(t)
	m := NewEffectManager()
	p := game.ParryAbility{Stacking: game.Stacking{Rounds: game.For(1), Unique: true}, Threshold: 2, Reflection: 0.5}
	_ = m.ApplyToCharacter(c, p)
	_ = m.DecrementCharacter()
	p.Threshold = 5
	if err := m.ApplyToCharacter(c, p); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	effects := m.CharacterEffects()
	if len(effects) != 1 {
		t.Fatalf("expected 1 effect after refresh, got %d", len(effects))
	}
	if n, _ := effects[0].Remaining.Get(); n != 1 {
		t.Fatalf("expected duration reset to 1, got %d", n)
	}
	if stance, _ := c.Parry(); stance.Threshold != 5 {
		t.Fatalf("expected refreshed threshold 5, got %v", stance.Threshold)
	}
}

func TestEffectManager_UniqueKeepsPermanentOfSameKind(t *testing.T) {
	c := newCharacter(t)
	m := NewEffectManager()
	if err := m.ApplyToCharacter(c, game.ParryAbility{Threshold: 3, Reflection: 0.2}); err != nil {
		t.Fatalf("equip parry: %v", err)
	}
	if err := m.ApplyToCharacter(c, game.DefendAbility{Resistance: 0.5}); err != nil {
		t.Fatalf("equip defend: %v", err)
	}
	once := game.Stacking{Rounds: game.For(1), Unique: true}
	_ = m.ApplyToCharacter(c, game.ParryAbility{Stacking: once, Threshold: 10, Reflection: 0.5})
	_ = m.ApplyToCharacter(c, game.DefendAbility{Stacking: once, Resistance: 0.1})
	if n := len(m.CharacterEffects()); n != 4 {
		t.Fatalf("expected the temporary effects to stack beside the permanent ones, got %d", n)
	}
	if stance, _ := c.Parry(); stance.Threshold != 10 || !approxEqual(c.DamageResistance, 0.6) {
		t.Fatalf("expected temporary parry and 0.6 resistance, got %+v %v", stance, c.DamageResistance)
	}

	_ = m.DecrementCharacter()
	if _, err := m.RemoveFinishedCharacter(c); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n := len(m.CharacterEffects()); n != 2 {
		t.Fatalf("expected the permanent effects to remain, got %d", n)
	}
	stance, ok := c.Parry()
	if !ok || stance.Threshold != 3 || stance.Reflection != 0.2 {
		t.Fatalf("expected the equipped stance back, got %+v %v", stance, ok)
	}
	if !approxEqual(c.DamageResistance, 0.5) {
		t.Fatalf("expected resistance 0.5 after expiry, got %v", c.DamageResistance)
	}
}

func TestEffectManager_FailedRefreshKeepsEntityInStep(t *testing.T) {
	c := newCharacter(t)
	m := NewEffectManager()
	unique := game.Stacking{Rounds: game.For(2), Unique: true}
	_ = m.ApplyToCharacter(c, game.ParryAbility{Stacking: unique, Threshold: 2, Reflection: 0.5})
	_ = m.ApplyToCharacter(c, game.DefendAbility{Stacking: unique, Resistance: 0.2})

	if err := m.ApplyToCharacter(c, game.ParryAbility{Stacking: unique, Threshold: 0}); !errors.Is(err, game.ErrInvalidParry) {
		t.Fatalf("expected ErrInvalidParry, got %v", err)
	}
	if err := m.ApplyToCharacter(c, game.DefendAbility{Stacking: unique, Resistance: -0.1}); !errors.Is(err, game.ErrNegativeResistanceDelta) {
		t.Fatalf("expected ErrNegativeResistanceDelta, got %v", err)
	}
	if stance, ok := c.Parry(); !ok || stance.Threshold != 2 {
		t.Fatalf("expected the old stance to stay, got %+v %v", stance, ok)
	}
	if !approxEqual(c.DamageResistance, 0.2) {
		t.Fatalf("expected resistance 0.2, got %v", c.DamageResistance)
	}
	if n := len(m.CharacterEffects()); n != 2 {
		t.Fatalf("expected 2 effects, got %d", n)
	}
}

func approxEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestEffectManager_RemainingIgniteDuration(t *testing.T) {
	c := newCharacter(t)
	m := NewEffectManager()
	if n, err := m.RemainingIgniteDuration(game.CharacterRef{}); err != nil || n != 0 {
		t.Fatalf("expected 0 without ignite, got %d %v", n, err)
	}
	_ = m.ApplyToCharacter(c, game.IgniteAbility{Stacking: game.Stacking{Rounds: game.For(3)}})
	_ = m.DecrementCharacter()
	if n, err := m.RemainingIgniteDuration(game.CharacterRef{}); err != nil || n != 2 {
		t.Fatalf("expected 2, got %d %v", n, err)
	}
	_ = m.ApplyToCharacter(c, game.IgniteAbility{Stacking: game.Stacking{Rounds: game.For(3)}})
	if _, err := m.RemainingIgniteDuration(game.CharacterRef{}); !errors.Is(err, ErrMultipleIgniteEffects) {
		t.Fatalf("expected ErrMultipleIgniteEffects, got %v", err)
	}

	enemy, err := game.NewFightingEnemy(7, "imp", "Imp", 10, 1, 1, nil)
	if err != nil {
		t.Fatalf("enemy: %v", err)
	}
	_ = m.ApplyToEnemy(enemy, game.IgniteAbility{})
	if n, err := m.RemainingIgniteDuration(enemy.Ref()); err != nil || n != game.IgniteDuration {
		t.Fatalf("expected permanent ignite to report %d, got %d %v", game.IgniteDuration, n, err)
	}
}

func TestEffectManager_ForceRemoveAll(t *testing.T) {
	c := newCharacter(t)
	enemy, _ := game.NewFightingEnemy(1, "imp", "Imp", 10, 1, 1, nil)
	m := NewEffectManager()
	_ = m.ApplyToCharacter(c, game.DefendAbility{Resistance: 0.4})
	_ = m.ApplyToCharacter(c, game.IgniteAbility{})
	_ = m.ApplyToEnemy(enemy, game.WeakenAbility{Vulnerability: 0.3})

	if err := m.ForceRemoveAll(c, map[game.EnemyID]*game.FightingEnemy{enemy.ID: enemy}); err != nil {
		t.Fatalf("force remove: %v", err)
	}
	if c.DamageResistance != 0 || c.IsIgnited || enemy.DamageResistance != 0 {
		t.Fatalf("expected every effect reverted, got c=%v/%v enemy=%v", c.DamageResistance, c.IsIgnited, enemy.DamageResistance)
	}
	if len(m.CharacterEffects()) != 0 || len(m.EnemyEffects(enemy.ID)) != 0 {
		t.Fatalf("expected empty effect lists")
	}
}

func TestMaterialize(t *testing.T) {
	three := 3
	cases := []struct {
		rec  game.Ability
		want game.AbilityAction
	}{
		{game.Ability{Type: game.KindIgnite, Duration: &three}, game.IgniteAbility{Stacking: game.Stacking{Rounds: game.For(3)}}},
		{game.Ability{Type: game.KindPierce, Unique: true}, game.PierceAbility{Stacking: game.Stacking{Unique: true}}},
		{game.Ability{Type: game.KindParry, Threshold: 4, Reflection: 0.5}, game.ParryAbility{Threshold: 4, Reflection: 0.5}},
		{game.Ability{Type: game.KindDefend, Amount: 0.2}, game.DefendAbility{Resistance: 0.2}},
		{game.Ability{Type: game.KindWeaken, Amount: 0.1}, game.WeakenAbility{Vulnerability: 0.1}},
		{game.Ability{Type: game.KindHeal, Amount: 7}, game.HealAbility{Amount: 7}},
	}
	for _, tc := range cases {
		got, err := Materialize(tc.rec)
		if err != nil {
			t.Fatalf("materialize %s: %v", tc.rec.Type, err)
		}
		if got != tc.want {
			t.Fatalf("materialize %s: got %v, want %v", tc.rec.Type, got, tc.want)
		}
	}
	if _, err := Materialize(game.Ability{Key: "x", Type: "teleport"}); !errors.Is(err, ErrUnknownAbilityType) {
		t.Fatalf("expected ErrUnknownAbilityType, got %v", err)
	}
}

func TestMaterializeKeys_MissingKey(t *testing.T) {
	cat := catalog.NewMemory([]game.Ability{{Key: "burn", Type: game.KindIgnite}}, nil, nil)
	if _, err := MaterializeKeys(cat, []string{"burn", "nope"}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
