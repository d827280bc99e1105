package game

import (
	"fmt"

	"github.com/ericogr/gaia-combat/internal/random"
)

// FightingEnemy is an enemy spawned for one encounter, together with the
// state its decision engine works on.
type FightingEnemy struct {
	FightingEntity
	ID           EnemyID
	CatalogID    string
	AttackDamage float64
	Intelligence float64
	Position     GridPos
	// Bindings lists the abilities bound to each action name.
	Bindings map[ActionName][]AbilityAction
	// Offensiveness holds the score of every action the enemy can take right
	// now. Actions missing from the table are not candidates.
	Offensiveness map[ActionName]float64
}

func NewFightingEnemy(id EnemyID, catalogID, name string, maxHealth, attackDamage, intelligence float64, bindings map[ActionName][]AbilityAction) (*FightingEnemy, error) {
	fe, err := NewFightingEntity(name, maxHealth)
	if err != nil {
		return nil, err
	}
	if intelligence <= 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidIntelligence)
	}
	if bindings == nil {
		bindings = map[ActionName][]AbilityAction{}
	}
	e := &FightingEnemy{
		FightingEntity: fe,
		ID:             id,
		CatalogID:      catalogID,
		AttackDamage:   attackDamage,
		Intelligence:   intelligence,
		Bindings:       bindings,
	}
	e.RefreshOffensiveness()
	return e, nil
}

// Ref returns the weak reference used in queued actions.
func (e *FightingEnemy) Ref() EnemyRef { return EnemyRef{ID: e.ID, Position: e.Position} }

// DecisionErrorBound is the half-width of the noise added to decisions.
// Smarter enemies decide with less noise.
func (e *FightingEnemy) DecisionErrorBound() float64 {
	return DecisionErrorScale / e.Intelligence
}

// CalculateActionOffensiveness returns the baseline score of name plus the
// mean offensiveness of the bound abilities. The boolean is false when the
// action cannot be taken (a heal with nothing bound to it).
func (e *FightingEnemy) CalculateActionOffensiveness(name ActionName, bound []AbilityAction) (float64, bool) {
	if name == ActionHeal && len(bound) == 0 {
		return 0, false
	}
	base, ok := baselineOffensiveness[name]
	if !ok {
		return 0, false
	}
	return base + MeanOffensiveness(bound, &e.FightingEntity), true
}

// RefreshOffensiveness rebuilds the offensiveness table from the current
// state and bindings.
func (e *FightingEnemy) RefreshOffensiveness() {
	table := make(map[ActionName]float64, len(ActionNames))
	for _, name := range ActionNames {
		if v, ok := e.CalculateActionOffensiveness(name, e.Bindings[name]); ok {
			table[name] = v
		}
	}
	e.Offensiveness = table
}

// CalculateAggressiveness combines the enemy's own signals with the
// negated signals of its opponent, adds decision noise and clips the result
// to the decision error bound. The value is stored on the enemy.
func (e *FightingEnemy) CalculateAggressiveness(ownIgnite int, opponent *FightingEntity, opponentIgnite int, rng random.Source) float64 {
	ownSum, ownN := e.AggressivenessInfo(ownIgnite, opponent.IsParrying())
	oppSum, oppN := opponent.AggressivenessInfo(opponentIgnite, e.IsParrying())
	bound := e.DecisionErrorBound()
	v := CombineAggressiveness(ownSum, ownN, oppSum, oppN) + rng.Float64Between(-bound, bound)
	e.Aggressiveness = Clip(v, bound)
	return e.Aggressiveness
}

// ChooseActionName picks the action whose offensiveness is closest to the
// last computed aggressiveness.
func (e *FightingEnemy) ChooseActionName() (ActionName, error) {
	if len(e.Offensiveness) == 0 {
		return "", fmt.Errorf("%s: %w", e.Name, ErrEmptyOffensivenessTable)
	}
	var best ActionName
	bestDev := 0.0
	found := false
	for _, name := range ActionNames {
		off, ok := e.Offensiveness[name]
		if !ok {
			continue
		}
		d := off - e.Aggressiveness
		if dev := d * d; !found || dev < bestDev {
			best, bestDev, found = name, dev, true
		}
	}
	if !found {
		return "", fmt.Errorf("%s: no known action in table: %w", e.Name, ErrEmptyOffensivenessTable)
	}
	return best, nil
}

// BuildAction turns a chosen action name into a queued combat action.
// Attacks target the character; heals target the enemy itself.
func (e *FightingEnemy) BuildAction(name ActionName) (CombatAction, error) {
	switch name {
	case ActionAttack:
		bound := e.Bindings[ActionAttack]
		companions := make([]AbilityAction, len(bound))
		copy(companions, bound)
		return CombatAction{
			Sender: e.Ref(),
			Target: CharacterRef{},
			Action: AttackAction{Damage: e.AttackDamage, Companions: companions},
		}, nil
	case ActionHeal:
		amount := 0.0
		heals := 0
		for _, a := range e.Bindings[ActionHeal] {
			if h, ok := a.(HealAbility); ok {
				amount += h.Amount
				heals++
			}
		}
		if heals == 0 {
			return CombatAction{}, fmt.Errorf("%s: heal bound to no heal ability: %w", e.Name, ErrUnknownAbility)
		}
		return CombatAction{Sender: e.Ref(), Target: e.Ref(), Action: HealAction{Amount: amount}}, nil
	default:
		return CombatAction{}, fmt.Errorf("%s: action %q: %w", e.Name, name, ErrUnknownAbility)
	}
}
