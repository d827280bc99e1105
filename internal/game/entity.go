package game

import "fmt"

// ParryStance holds the parameters of an engaged parry.
type ParryStance struct {
	Threshold  float64
	Reflection float64
}

// FightingEntity is the combat state shared by the character and enemies.
// Health is kept inside [0, MaxHealth] by every mutator.
type FightingEntity struct {
	Name             string
	DamageResistance float64
	IsIgnited        bool
	IsPierced        bool
	// Aggressiveness is the last value computed by the decision engine.
	Aggressiveness float64

	health    float64
	maxHealth float64
	parry     *ParryStance
}

// NewFightingEntity returns an entity at full health.
func NewFightingEntity(name string, maxHealth float64) (FightingEntity, error) {
	if maxHealth <= 0 {
		return FightingEntity{}, fmt.Errorf("%s: %w", name, ErrInvalidMaxHealth)
	}
	return FightingEntity{Name: name, health: maxHealth, maxHealth: maxHealth}, nil
}

func (e *FightingEntity) Health() float64    { return e.health }
func (e *FightingEntity) MaxHealth() float64 { return e.maxHealth }
func (e *FightingEntity) IsAlive() bool      { return e.health > 0 }
func (e *FightingEntity) IsParrying() bool   { return e.parry != nil }

// Parry returns the engaged stance, if any.
func (e *FightingEntity) Parry() (ParryStance, bool) {
	if e.parry == nil {
		return ParryStance{}, false
	}
	return *e.parry, true
}

func (e *FightingEntity) SetHealth(v float64) error {
	if v < 0 || v > e.maxHealth {
		return fmt.Errorf("%s: set health %.2f outside [0, %.2f]: %w", e.Name, v, e.maxHealth, ErrHealthOutOfRange)
	}
	e.health = v
	return nil
}

// ChangeHealth adds delta, clamping the result into [0, MaxHealth].
func (e *FightingEntity) ChangeHealth(delta float64) error {
	v := e.health + delta
	if v < 0 {
		v = 0
	}
	if v > e.maxHealth {
		v = e.maxHealth
	}
	return e.SetHealth(v)
}

// TakeDamage applies amount scaled by (1 - DamageResistance) and returns the
// damage actually dealt. Piercing ignores resistance but not vulnerability.
func (e *FightingEntity) TakeDamage(amount float64) (float64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%s: damage %.2f: %w", e.Name, amount, ErrNegativeDamage)
	}
	dealt := amount
	if !e.IsPierced || e.DamageResistance < 0 {
		dealt = amount * (1 - e.DamageResistance)
	}
	if dealt < 0 {
		return 0, fmt.Errorf("%s: resisted damage %.2f: %w", e.Name, dealt, ErrNegativeDamage)
	}
	if err := e.ChangeHealth(-dealt); err != nil {
		return 0, err
	}
	return dealt, nil
}

func (e *FightingEntity) Heal(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("%s: heal %.2f: %w", e.Name, amount, ErrNegativeHeal)
	}
	return e.ChangeHealth(amount)
}

// ApplyAbility sets the status fields that correspond to a.
func (e *FightingEntity) ApplyAbility(a AbilityAction) error {
	switch a := a.(type) {
	case IgniteAbility:
		e.IsIgnited = true
	case PierceAbility:
		e.IsPierced = true
	case ParryAbility:
		if a.Threshold <= 0 || a.Reflection < 0 {
			return fmt.Errorf("%s: %w", e.Name, ErrInvalidParry)
		}
		e.parry = &ParryStance{Threshold: a.Threshold, Reflection: a.Reflection}
	case DefendAbility:
		if a.Resistance < 0 {
			return fmt.Errorf("%s: defend %.2f: %w", e.Name, a.Resistance, ErrNegativeResistanceDelta)
		}
		e.DamageResistance += a.Resistance
	case WeakenAbility:
		if a.Vulnerability < 0 {
			return fmt.Errorf("%s: weaken %.2f: %w", e.Name, a.Vulnerability, ErrNegativeResistanceDelta)
		}
		e.DamageResistance -= a.Vulnerability
	case HealAbility:
		return e.Heal(a.Amount)
	default:
		return fmt.Errorf("%s: apply %T: %w", e.Name, a, ErrUnknownAbility)
	}
	return nil
}

// RemoveAbility reverts ApplyAbility. Heals are instant and are not undone.
func (e *FightingEntity) RemoveAbility(a AbilityAction) error {
	switch a := a.(type) {
	case IgniteAbility:
		e.IsIgnited = false
	case PierceAbility:
		e.IsPierced = false
	case ParryAbility:
		e.parry = nil
	case DefendAbility:
		if a.Resistance < 0 {
			return fmt.Errorf("%s: defend %.2f: %w", e.Name, a.Resistance, ErrNegativeResistanceDelta)
		}
		e.DamageResistance -= a.Resistance
	case WeakenAbility:
		if a.Vulnerability < 0 {
			return fmt.Errorf("%s: weaken %.2f: %w", e.Name, a.Vulnerability, ErrNegativeResistanceDelta)
		}
		e.DamageResistance += a.Vulnerability
	case HealAbility:
	default:
		return fmt.Errorf("%s: remove %T: %w", e.Name, a, ErrUnknownAbility)
	}
	return nil
}

// InflictActiveEffects applies one round of ongoing damage.
func (e *FightingEntity) InflictActiveEffects() (float64, error) {
	if !e.IsIgnited {
		return 0, nil
	}
	return e.TakeDamage(IgniteDamage)
}

// AggressivenessInfo returns the sum of the four aggressiveness signals and
// how many there are.
func (e *FightingEntity) AggressivenessInfo(remainingIgnite int, isTargetParrying bool) (float64, int) {
	sum := HealthAggressiveness(e.health, e.maxHealth) +
		IgnitedAggressiveness(e.IsIgnited, e.health, e.maxHealth, remainingIgnite) +
		DamageResistanceAggressiveness(e.DamageResistance, e.IsPierced) +
		TargetParryAggressiveness(isTargetParrying)
	return sum, 4
}

// ResetTransient restores full health and clears every status field.
func (e *FightingEntity) ResetTransient() {
	e.health = e.maxHealth
	e.DamageResistance = 0
	e.IsIgnited = false
	e.IsPierced = false
	e.parry = nil
	e.Aggressiveness = 0
}
