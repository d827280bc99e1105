package game

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestEntity(t *testing.T, max float64) *FightingEntity {
	t.Helper()
	e, err := NewFightingEntity("Hero", max)
	if err != nil {
		t.Fatalf("new entity: %v", err)
	}
	return &e
}

func TestFightingEntity_HealthStaysInBounds(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	e := newTestEntity(t, 50)
	for i := 0; i < 1000; i++ {
		v := r.Float64() * 80
		switch r.Intn(3) {
		case 0:
			_, _ = e.TakeDamage(v)
		case 1:
			_ = e.Heal(v)
		default:
			_ = e.ChangeHealth(v - 40)
		}
		if h := e.Health(); h < 0 || h > e.MaxHealth() {
			t.Fatalf("step %d: health %v outside [0, %v]", i, h, e.MaxHealth())
		}
	}
}

func TestFightingEntity_SetHealthRejectsOutOfRange(t *testing.T) {
	e := newTestEntity(t, 10)
	for _, v := range []float64{-0.1, 10.1} {
		if err := e.SetHealth(v); !errors.Is(err, ErrHealthOutOfRange) {
			t.Fatalf("SetHealth(%v): expected ErrHealthOutOfRange, got %v", v, err)
		}
	}
	if _, err := NewFightingEntity("x", 0); !errors.Is(err, ErrInvalidMaxHealth) {
		t.Fatalf("expected ErrInvalidMaxHealth, got %v", err)
	}
}

func TestFightingEntity_TakeDamage(t *testing.T) {
	cases := []struct {
		name       string
		resistance float64
		pierced    bool
		want       float64
	}{
		{"unresisted", 0, false, 70},
		{"half resistance", 0.5, false, 85},
		{"pierced ignores resistance", 0.5, true, 70},
		{"pierced keeps vulnerability", -0.5, true, 55},
	}
	for _, tc := range cases {
		e := newTestEntity(t, 100)
		e.DamageResistance = tc.resistance
		e.IsPierced = tc.pierced
		if _, err := e.TakeDamage(30); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if e.Health() != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, e.Health())
		}
	}
}

func TestFightingEntity_NegativeAmountsFail(t *testing.T) {
	e := newTestEntity(t, 10)
	if _, err := e.TakeDamage(-1); !errors.Is(err, ErrNegativeDamage) {
		t.Fatalf("expected ErrNegativeDamage, got %v", err)
	}
	e.DamageResistance = 1.5
	if _, err := e.TakeDamage(4); !errors.Is(err, ErrNegativeDamage) {
		t.Fatalf("expected over-resisted damage to fail, got %v", err)
	}
	if err := e.Heal(-1); !errors.Is(err, ErrNegativeHeal) {
		t.Fatalf("expected ErrNegativeHeal, got %v", err)
	}
}

func TestFightingEntity_IgniteTick(t *testing.T) {
	for _, remaining := range []int{1, 3, 99} {
		e := newTestEntity(t, 100)
		if err := e.ApplyAbility(IgniteAbility{Stacking{Rounds: For(remaining)}}); err != nil {
			t.Fatalf("apply: %v", err)
		}
		dealt, err := e.InflictActiveEffects()
		if err != nil {
			t.Fatalf("tick: %v", err)
		}
		if dealt != IgniteDamage || e.Health() != 100-IgniteDamage {
			t.Fatalf("remaining %d: expected %v damage, got %v", remaining, IgniteDamage, dealt)
		}
	}
	cold := newTestEntity(t, 100)
	if dealt, _ := cold.InflictActiveEffects(); dealt != 0 {
		t.Fatalf("expected no damage without ignite, got %v", dealt)
	}
}

func TestFightingEntity_ApplyRemoveSymmetry(t *testing.T) {
	abilities := []AbilityAction{
		IgniteAbility{},
		PierceAbility{},
		ParryAbility{Threshold: 3, Reflection: 0.5},
		DefendAbility{Resistance: 0.25},
		WeakenAbility{Vulnerability: 0.4},
	}
	for _, a := range abilities {
		e := newTestEntity(t, 10)
		before := *e
		if err := e.ApplyAbility(a); err != nil {
			t.Fatalf("apply %s: %v", a, err)
		}
		if err := e.RemoveAbility(a); err != nil {
			t.Fatalf("remove %s: %v", a, err)
		}
		if e.IsIgnited != before.IsIgnited || e.IsPierced != before.IsPierced || e.IsParrying() || e.DamageResistance != before.DamageResistance {
			t.Fatalf("%s: state not restored", a)
		}
	}
}

func TestFightingEntity_InvalidParry(t *testing.T) {
	e := newTestEntity(t, 10)
	for _, p := range []ParryAbility{{Threshold: 0, Reflection: 1}, {Threshold: 2, Reflection: -0.1}} {
		if err := e.ApplyAbility(p); !errors.Is(err, ErrInvalidParry) {
			t.Fatalf("expected ErrInvalidParry for %v, got %v", p, err)
		}
	}
	if e.IsParrying() {
		t.Fatalf("invalid parry must not engage a stance")
	}
}

func TestFightingEntity_NegativeResistanceDelta(t *testing.T) {
	e := newTestEntity(t, 10)
	if err := e.ApplyAbility(DefendAbility{Resistance: -0.1}); !errors.Is(err, ErrNegativeResistanceDelta) {
		t.Fatalf("expected ErrNegativeResistanceDelta, got %v", err)
	}
	if err := e.RemoveAbility(WeakenAbility{Vulnerability: -0.1}); !errors.Is(err, ErrNegativeResistanceDelta) {
		t.Fatalf("expected ErrNegativeResistanceDelta, got %v", err)
	}
}

func TestFightingEntity_ResetTransient(t *testing.T) {
	e := newTestEntity(t, 10)
	_, _ = e.TakeDamage(4)
	_ = e.ApplyAbility(IgniteAbility{})
	_ = e.ApplyAbility(ParryAbility{Threshold: 1, Reflection: 1})
	e.DamageResistance = 0.3
	e.ResetTransient()
	if e.Health() != 10 || e.IsIgnited || e.IsParrying() || e.DamageResistance != 0 {
		t.Fatalf("expected a clean entity, got %+v", e)
	}
}
