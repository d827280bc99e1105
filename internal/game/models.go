package game

import (
	"strings"

	"gorm.io/gorm"
)

// Ability is a catalog entry describing an ability by type tag and numeric
// parameters. The engine turns it into an AbilityAction when it is applied.
type Ability struct {
	gorm.Model
	// Key is the canonical catalog id (see keys.CatalogID).
	Key  string      `json:"key" gorm:"column:catalog_key;uniqueIndex"`
	Name string      `json:"name"`
	Type AbilityKind `json:"type"`
	// Duration in rounds; nil means permanent.
	Duration   *int    `json:"duration"`
	Unique     bool    `json:"unique"`
	Threshold  float64 `json:"threshold"`
	Reflection float64 `json:"reflection"`
	Amount     float64 `json:"amount"`
}

// TableName keeps catalog tables grouped under a common prefix.
func (Ability) TableName() string { return "ability_catalog" }

// Enemy is a catalog entry an encounter spawns FightingEnemies from.
type Enemy struct {
	gorm.Model
	Key          string  `json:"key" gorm:"column:catalog_key;uniqueIndex"`
	Name         string  `json:"name"`
	MaxHealth    float64 `json:"max_health"`
	AttackDamage float64 `json:"attack_damage"`
	Intelligence float64 `json:"intelligence"`
	// AttackAbilities are ability keys applied alongside every attack. They
	// are persisted joined in AttackAbilityKeys.
	AttackAbilities   []string `json:"attack_abilities" gorm:"-"`
	AttackAbilityKeys string   `json:"-"`
	// HealAbility is empty when the enemy cannot heal.
	HealAbility string `json:"heal_ability"`
}

func (Enemy) TableName() string { return "enemy_catalog" }

// BeforeSave joins the slice fields into their persisted columns.
func (e *Enemy) BeforeSave(tx *gorm.DB) error {
	e.AttackAbilityKeys = joinKeys(e.AttackAbilities)
	return nil
}

// AfterFind restores the slice fields from their persisted columns.
func (e *Enemy) AfterFind(tx *gorm.DB) error {
	e.AttackAbilities = splitKeys(e.AttackAbilityKeys)
	return nil
}

// Loadout is the persistent part of a user's character: base stats, weapon
// and the abilities bound to equipped items.
type Loadout struct {
	gorm.Model
	UserID            string   `json:"user_id" gorm:"uniqueIndex"`
	Name              string   `json:"name"`
	MaxHealth         float64  `json:"max_health"`
	WeaponDamage      float64  `json:"weapon_damage"`
	WeaponAbilities   []string `json:"weapon_abilities" gorm:"-"`
	EquippedAbilities []string `json:"equipped_abilities" gorm:"-"`

	WeaponAbilityKeys   string `json:"-"`
	EquippedAbilityKeys string `json:"-"`
}

func (Loadout) TableName() string { return "character_loadouts" }

func (l *Loadout) BeforeSave(tx *gorm.DB) error {
	l.WeaponAbilityKeys = joinKeys(l.WeaponAbilities)
	l.EquippedAbilityKeys = joinKeys(l.EquippedAbilities)
	return nil
}

func (l *Loadout) AfterFind(tx *gorm.DB) error {
	l.WeaponAbilities = splitKeys(l.WeaponAbilityKeys)
	l.EquippedAbilities = splitKeys(l.EquippedAbilityKeys)
	return nil
}

// Outcome is the final state of an encounter.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeLost      Outcome = "lost"
	OutcomeAbandoned Outcome = "abandoned"
)

// EncounterRecord stores the result of one finished (or abandoned) combat.
type EncounterRecord struct {
	gorm.Model
	EncounterID string `json:"encounter_id" gorm:"uniqueIndex"`
	UserID      string `json:"user_id" gorm:"index"`
	// EnemyMix groups encounters fought against the same enemies (see
	// keys.EnemyMixKey).
	EnemyMix        string  `json:"enemy_mix" gorm:"index"`
	Outcome         Outcome `json:"outcome"`
	Seed            int64   `json:"seed"`
	Rounds          int     `json:"rounds"`
	ActionsResolved int     `json:"actions_resolved"`
	EnemiesDefeated int     `json:"enemies_defeated"`
	CharacterHealth float64 `json:"character_health"`
	LastRoundLog    string  `json:"last_round_log"`
}

func (EncounterRecord) TableName() string { return "encounter_results" }

func joinKeys(keys []string) string { return strings.Join(keys, ",") }

func splitKeys(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
