package game

// Balance constants shared by the status effects and the enemy decision engine.
const (
	// IgniteDamage is dealt once per round-resolution tick while ignited.
	IgniteDamage = 5.0
	// IgniteDuration is the number of ticks an ignite effect normally lasts.
	IgniteDuration = 3

	IgniteOffensiveness = 0.6
	PierceOffensiveness = 0.4

	// DecisionErrorScale is divided by intelligence to get the noise half-width.
	DecisionErrorScale = 5.0

	parryingTargetAggressiveness = -0.75
	openTargetAggressiveness     = 0.1
)

// ActionName identifies one of the actions an enemy may choose between.
type ActionName string

const (
	ActionAttack ActionName = "Attack"
	ActionHeal   ActionName = "Heal"
)

// ActionNames lists every enemy action in decision order. Ties while choosing
// resolve to the earlier entry.
var ActionNames = []ActionName{ActionAttack, ActionHeal}

// baselineOffensiveness is the starting score of each action before bound
// abilities are averaged in.
var baselineOffensiveness = map[ActionName]float64{
	ActionAttack: 0.5,
	ActionHeal:   -0.5,
}
