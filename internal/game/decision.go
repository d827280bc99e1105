package game

import "math"

// --- Aggressiveness signals ---------------------------------------------
//
// Each signal maps one aspect of an entity's state to a score that is
// nominally within [-1, 1]. Positive values push towards offensive actions.

// HealthAggressiveness is -1 at zero health and 1 at full health.
func HealthAggressiveness(health, maxHealth float64) float64 {
	return health*(2/maxHealth) - 1
}

// IgnitedAggressiveness is 0 unless ignited. While burning the score is a
// linear function of health that gets more negative the longer the fire
// still has to run.
func IgnitedAggressiveness(isIgnited bool, health, maxHealth float64, remaining int) float64 {
	if !isIgnited {
		return 0
	}
	r := float64(remaining)
	m := (1 / (2 * maxHealth)) * (r/IgniteDuration - 1/(5*maxHealth))
	c := -r / (2 * IgniteDuration)
	return m*health + c
}

// DamageResistanceAggressiveness ignores resistance entirely while pierced.
func DamageResistanceAggressiveness(resistance float64, isPierced bool) float64 {
	if isPierced {
		return 0
	}
	return math.Pow(2, resistance) - 1
}

func TargetParryAggressiveness(isTargetParrying bool) float64 {
	if isTargetParrying {
		return parryingTargetAggressiveness
	}
	return openTargetAggressiveness
}

// CombineAggressiveness blends one side's mean signal with the opposing
// side's mean using equal weights: (own - opponent) / 2.
func CombineAggressiveness(ownSum float64, ownCount int, oppSum float64, oppCount int) float64 {
	own := mean(ownSum, ownCount)
	opp := mean(oppSum, oppCount)
	return (own - opp) / 2
}

// Clip bounds v to [-bound, bound].
func Clip(v, bound float64) float64 {
	return math.Max(-bound, math.Min(bound, v))
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
