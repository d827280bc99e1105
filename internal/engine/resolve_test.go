package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/ericogr/gaia-combat/internal/game"
)

type recordingApplier struct {
	applied []game.AbilityAction
	refs    []game.EntityRef
	err     error
}

func (r *recordingApplier) ApplyAbility(ref game.EntityRef, a game.AbilityAction) error {
	if r.err != nil {
		return r.err
	}
	r.refs = append(r.refs, ref)
	r.applied = append(r.applied, a)
	return nil
}

func newEntity(t *testing.T, name string, max float64) *game.FightingEntity {
	t.Helper()
	e, err := game.NewFightingEntity(name, max)
	if err != nil {
		t.Fatalf("new entity: %v", err)
	}
	return &e
}

func TestResolveAction_ParrySplitsDamage(t *testing.T) {
	sender := newEntity(t, "Goblin", 20)
	target := newEntity(t, "Hero", 20)
	if err := target.ApplyAbility(game.ParryAbility{Stacking: game.Stacking{Rounds: game.For(1)}, Threshold: 4, Reflection: 0.5}); err != nil {
		t.Fatalf("parry: %v", err)
	}
	action := game.CombatAction{Sender: game.EnemyRef{ID: 1}, Target: game.CharacterRef{}, Action: game.AttackAction{Damage: 10}}

	if _, err := ResolveAction(action, sender, target, &recordingApplier{}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got := 20 - target.Health(); got != 6 {
		t.Fatalf("expected target to take 6, took %v", got)
	}
	if got := 20 - sender.Health(); got != 2 {
		t.Fatalf("expected sender to take 2, took %v", got)
	}
}

func TestResolveAction_ParryAbsorbsSmallHit(t *testing.T) {
	sender := newEntity(t, "Goblin", 20)
	target := newEntity(t, "Hero", 20)
	_ = target.ApplyAbility(game.ParryAbility{Threshold: 8, Reflection: 1})
	action := game.CombatAction{Sender: game.EnemyRef{ID: 1}, Target: game.CharacterRef{}, Action: game.AttackAction{Damage: 5}}

	if _, err := ResolveAction(action, sender, target, &recordingApplier{}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if target.Health() != 20 || sender.Health() != 15 {
		t.Fatalf("expected 20/15, got target=%v sender=%v", target.Health(), sender.Health())
	}
}

func TestResolveAction_AttackWithoutTargetIsNoop(t *testing.T) {
	sender := newEntity(t, "Hero", 10)
	app := &recordingApplier{}
	action := game.CombatAction{Sender: game.CharacterRef{}, Target: game.EmptyTileRef{}, Action: game.AttackAction{Damage: 3, Companions: []game.AbilityAction{game.IgniteAbility{}}}}

	msg, err := ResolveAction(action, sender, nil, app)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if msg == "" || len(app.applied) != 0 || sender.Health() != 10 {
		t.Fatalf("expected a no-op with a message, got %q applied=%d", msg, len(app.applied))
	}
}

func TestResolveAction_CompanionsOnlyOnSurvivor(t *testing.T) {
	ignite := game.IgniteAbility{Stacking: game.Stacking{Rounds: game.For(3)}}
	sender := newEntity(t, "Hero", 10)

	survivor := newEntity(t, "Troll", 30)
	app := &recordingApplier{}
	ref := game.EnemyRef{ID: 4}
	action := game.CombatAction{Sender: game.CharacterRef{}, Target: ref, Action: game.AttackAction{Damage: 10, Companions: []game.AbilityAction{ignite}}}
	if _, err := ResolveAction(action, sender, survivor, app); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(app.applied) != 1 || app.applied[0] != ignite || app.refs[0] != ref {
		t.Fatalf("expected ignite applied to %v, got %v on %v", ref, app.applied, app.refs)
	}

	victim := newEntity(t, "Rat", 5)
	app = &recordingApplier{}
	msg, err := ResolveAction(action, sender, victim, app)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(app.applied) != 0 {
		t.Fatalf("expected no companions on a dead target, got %v", app.applied)
	}
	if !strings.Contains(msg, "falls") {
		t.Fatalf("expected a fall message, got %q", msg)
	}
}

func TestResolveAction_ParryRoutesThroughEffects(t *testing.T) {
	sender := newEntity(t, "Hero", 10)
	app := &recordingApplier{}
	action := game.CombatAction{Sender: game.CharacterRef{}, Action: game.ParryAction{Threshold: 3, Reflection: 0.25}}

	if _, err := ResolveAction(action, sender, nil, app); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := game.ParryAbility{Stacking: game.Stacking{Rounds: game.For(1), Unique: true}, Threshold: 3, Reflection: 0.25}
	if len(app.applied) != 1 || app.applied[0] != want {
		t.Fatalf("expected %v applied, got %v", want, app.applied)
	}
	if _, ok := app.refs[0].(game.CharacterRef); !ok {
		t.Fatalf("expected parry on sender, got %v", app.refs[0])
	}
}

func TestResolveAction_Heal(t *testing.T) {
	sender := newEntity(t, "Shaman", 10)
	target := newEntity(t, "Shaman", 10)
	_, _ = target.TakeDamage(6)
	action := game.CombatAction{Sender: game.EnemyRef{ID: 1}, Target: game.EnemyRef{ID: 1}, Action: game.HealAction{Amount: 10}}

	if _, err := ResolveAction(action, sender, target, &recordingApplier{}); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if target.Health() != 10 {
		t.Fatalf("expected heal clamped to 10, got %v", target.Health())
	}
	if _, err := ResolveAction(action, sender, nil, &recordingApplier{}); err != nil {
		t.Fatalf("heal without target should be a no-op: %v", err)
	}
}

func TestResolveAction_ApplierErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	sender := newEntity(t, "Hero", 10)
	action := game.CombatAction{Sender: game.CharacterRef{}, Action: game.ParryAction{Threshold: 1, Reflection: 1}}
	if _, err := ResolveAction(action, sender, nil, &recordingApplier{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected applier error, got %v", err)
	}
}
