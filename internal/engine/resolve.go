package engine

import (
	"fmt"
	"math"

	"github.com/ericogr/gaia-combat/internal/game"
)

// AbilityApplier routes an ability to the effect list of the referenced
// entity. The Manager is the production implementation.
type AbilityApplier interface {
	ApplyAbility(ref game.EntityRef, a game.AbilityAction) error
}

// ResolveAction performs one combat action. sender must be live; target is
// nil when the action has no target or the target is gone. It returns a
// one-line description for the round summary.
func ResolveAction(action game.CombatAction, sender, target *game.FightingEntity, effects AbilityApplier) (string, error) {
	switch act := action.Action.(type) {
	case game.AttackAction:
		return resolveAttack(action, act, sender, target, effects)
	case game.ParryAction:
		parry := game.ParryAbility{
			Stacking:   game.Stacking{Rounds: game.For(1), Unique: true},
			Threshold:  act.Threshold,
			Reflection: act.Reflection,
		}
		if err := effects.ApplyAbility(action.Sender, parry); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s raises a parry (threshold %.1f, reflects %.0f%%)", sender.Name, act.Threshold, act.Reflection*100), nil
	case game.HealAction:
		if target == nil {
			return fmt.Sprintf("%s heals nobody", sender.Name), nil
		}
		before := target.Health()
		if err := target.Heal(act.Amount); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s heals %s for %.1f", sender.Name, target.Name, target.Health()-before), nil
	default:
		return "", fmt.Errorf("resolve %T: %w", action.Action, ErrUnknownAbilityType)
	}
}

// resolveAttack splits damage against a parrying target: the part up to the
// threshold is absorbed and partially reflected to the sender, the rest
// reaches the target. Companions land only on a surviving target.
func resolveAttack(action game.CombatAction, act game.AttackAction, sender, target *game.FightingEntity, effects AbilityApplier) (string, error) {
	if target == nil {
		return fmt.Sprintf("%s attacks but there is nobody there", sender.Name), nil
	}
	incoming := act.Damage
	msg := ""
	if stance, ok := target.Parry(); ok {
		absorbed := math.Min(act.Damage, stance.Threshold)
		incoming = math.Max(act.Damage-stance.Threshold, 0)
		reflected, err := sender.TakeDamage(absorbed * stance.Reflection)
		if err != nil {
			return "", err
		}
		msg = fmt.Sprintf(" (%s parries %.1f, %.1f reflected to %s)", target.Name, absorbed, reflected, sender.Name)
	}
	dealt, err := target.TakeDamage(incoming)
	if err != nil {
		return "", err
	}
	msg = fmt.Sprintf("%s attacks %s for %.1f%s", sender.Name, target.Name, dealt, msg)
	if !target.IsAlive() {
		return msg + " - " + target.Name + " falls", nil
	}
	for _, c := range act.Companions {
		if err := effects.ApplyAbility(action.Target, c); err != nil {
			return "", err
		}
	}
	if n := len(act.Companions); n > 0 {
		msg = fmt.Sprintf("%s, applying %d ability(s)", msg, n)
	}
	return msg, nil
}
