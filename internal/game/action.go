package game

import "fmt"

// ActionType is the closed set of things a combat action can do.
type ActionType interface {
	Name() string
	isActionType()
}

// AttackAction deals Damage to the target and then applies its companion
// abilities to the target if it survives.
type AttackAction struct {
	Damage     float64
	Companions []AbilityAction
}

// ParryAction engages a parry stance on the sender.
type ParryAction struct {
	Threshold  float64
	Reflection float64
}

// HealAction restores Amount health to the target.
type HealAction struct {
	Amount float64
}

func (AttackAction) isActionType() {}
func (ParryAction) isActionType()  {}
func (HealAction) isActionType()   {}

func (AttackAction) Name() string { return string(ActionAttack) }
func (ParryAction) Name() string  { return "Parry" }
func (HealAction) Name() string   { return string(ActionHeal) }

// CombatAction is one queued interaction. Target may be nil.
type CombatAction struct {
	Sender EntityRef
	Target EntityRef
	Action ActionType
}

func (a CombatAction) String() string {
	target := "nobody"
	if a.Target != nil {
		target = a.Target.String()
	}
	return fmt.Sprintf("%s: %s -> %s", a.Action.Name(), a.Sender, target)
}
