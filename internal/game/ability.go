package game

import (
	"fmt"
	"math"
)

// Rounds is an optional round count. The zero value means permanent.
type Rounds struct {
	n   int
	set bool
}

// Permanent never expires.
var Permanent = Rounds{}

// For returns a duration of n rounds. Negative values are clamped to zero.
func For(n int) Rounds {
	if n < 0 {
		n = 0
	}
	return Rounds{n: n, set: true}
}

// Get returns the round count and whether the duration is bounded.
func (r Rounds) Get() (int, bool) { return r.n, r.set }

func (r Rounds) IsPermanent() bool { return !r.set }

func (r Rounds) String() string {
	if !r.set {
		return "permanent"
	}
	return fmt.Sprintf("%d round(s)", r.n)
}

// AbilityKind is the catalog tag of an ability.
type AbilityKind string

const (
	KindIgnite AbilityKind = "ignite"
	KindPierce AbilityKind = "pierce"
	KindParry  AbilityKind = "parry"
	KindDefend AbilityKind = "defend"
	KindWeaken AbilityKind = "weaken"
	KindHeal   AbilityKind = "heal"
)

// AbilityKinds lists every known tag.
var AbilityKinds = []AbilityKind{KindIgnite, KindPierce, KindParry, KindDefend, KindWeaken, KindHeal}

// AbilityAction is the closed set of status effects an ability can carry.
// Implementations are the *Ability structs in this file; all are comparable,
// so == is structural equality.
type AbilityAction interface {
	Kind() AbilityKind
	Duration() Rounds
	IsUnique() bool
	// Offensiveness scores how aggressive binding this ability to an action
	// is, from the point of view of holder.
	Offensiveness(holder *FightingEntity) float64
	String() string
	sealed()
}

// Stacking holds the fields every ability variant shares.
type Stacking struct {
	Rounds Rounds
	Unique bool
}

func (s Stacking) Duration() Rounds { return s.Rounds }
func (s Stacking) IsUnique() bool   { return s.Unique }
func (Stacking) sealed()            {}

type IgniteAbility struct{ Stacking }

type PierceAbility struct{ Stacking }

type ParryAbility struct {
	Stacking
	Threshold  float64
	Reflection float64
}

type DefendAbility struct {
	Stacking
	Resistance float64
}

type WeakenAbility struct {
	Stacking
	Vulnerability float64
}

type HealAbility struct {
	Stacking
	Amount float64
}

func (IgniteAbility) Kind() AbilityKind { return KindIgnite }
func (PierceAbility) Kind() AbilityKind { return KindPierce }
func (ParryAbility) Kind() AbilityKind  { return KindParry }
func (DefendAbility) Kind() AbilityKind { return KindDefend }
func (WeakenAbility) Kind() AbilityKind { return KindWeaken }
func (HealAbility) Kind() AbilityKind   { return KindHeal }

func (IgniteAbility) Offensiveness(*FightingEntity) float64 { return IgniteOffensiveness }
func (PierceAbility) Offensiveness(*FightingEntity) float64 { return PierceOffensiveness }

func (a ParryAbility) Offensiveness(*FightingEntity) float64 {
	return a.Reflection * (1 - math.Pow(2, -a.Threshold))
}

func (a DefendAbility) Offensiveness(*FightingEntity) float64 {
	return DamageResistanceAggressiveness(a.Resistance, false)
}

func (a WeakenAbility) Offensiveness(*FightingEntity) float64 {
	return DamageResistanceAggressiveness(-a.Vulnerability, false)
}

// Offensiveness of a heal is never positive. A holder that could be healed
// past its own maximum scores below zero.
func (a HealAbility) Offensiveness(holder *FightingEntity) float64 {
	if holder == nil {
		return 0
	}
	denom := holder.MaxHealth() - a.Amount
	if denom == 0 {
		return 0
	}
	return math.Min(holder.Health()/denom, 0)
}

func (a IgniteAbility) String() string { return "Ignite (" + a.Rounds.String() + ")" }
func (a PierceAbility) String() string { return "Pierce (" + a.Rounds.String() + ")" }

func (a ParryAbility) String() string {
	return fmt.Sprintf("Parry threshold %.1f reflect %.0f%% (%s)", a.Threshold, a.Reflection*100, a.Rounds)
}

func (a DefendAbility) String() string {
	return fmt.Sprintf("Defend +%.2f resistance (%s)", a.Resistance, a.Rounds)
}

func (a WeakenAbility) String() string {
	return fmt.Sprintf("Weaken -%.2f resistance (%s)", a.Vulnerability, a.Rounds)
}

func (a HealAbility) String() string {
	return fmt.Sprintf("Heal %.1f (%s)", a.Amount, a.Rounds)
}

// MeanOffensiveness averages the offensiveness of abilities for holder.
func MeanOffensiveness(abilities []AbilityAction, holder *FightingEntity) float64 {
	if len(abilities) == 0 {
		return 0
	}
	sum := 0.0
	for _, a := range abilities {
		sum += a.Offensiveness(holder)
	}
	return sum / float64(len(abilities))
}
