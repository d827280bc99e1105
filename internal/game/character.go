package game

// Character is the player's fighter. It outlives encounters; its transient
// combat fields are reset when an encounter starts and ends.
type Character struct {
	FightingEntity
	UserID string
	// WeaponDamage is the raw damage of the equipped weapon.
	WeaponDamage float64
	// WeaponAbilities are applied to whatever the weapon hits.
	WeaponAbilities []AbilityAction
}

func NewCharacter(userID, name string, maxHealth, weaponDamage float64) (*Character, error) {
	fe, err := NewFightingEntity(name, maxHealth)
	if err != nil {
		return nil, err
	}
	return &Character{FightingEntity: fe, UserID: userID, WeaponDamage: weaponDamage}, nil
}

// Attack builds the action type of a weapon swing.
func (c *Character) Attack() AttackAction {
	companions := make([]AbilityAction, len(c.WeaponAbilities))
	copy(companions, c.WeaponAbilities)
	return AttackAction{Damage: c.WeaponDamage, Companions: companions}
}
