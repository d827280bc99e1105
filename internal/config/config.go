package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/keys"
)

type abilityEntry struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Type       string  `json:"type" yaml:"type"`
	Duration   *int    `json:"duration" yaml:"duration"`
	Unique     bool    `json:"unique" yaml:"unique"`
	Threshold  float64 `json:"threshold" yaml:"threshold"`
	Reflection float64 `json:"reflection" yaml:"reflection"`
	Amount     float64 `json:"amount" yaml:"amount"`
}

type enemyEntry struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	MaxHealth       float64  `json:"max_health" yaml:"max_health"`
	AttackDamage    float64  `json:"attack_damage" yaml:"attack_damage"`
	Intelligence    float64  `json:"intelligence" yaml:"intelligence"`
	AttackAbilities []string `json:"attack_abilities" yaml:"attack_abilities"`
	HealAbility     string   `json:"heal_ability" yaml:"heal_ability"`
}

type characterEntry struct {
	UserID            string   `json:"user_id" yaml:"user_id"`
	Name              string   `json:"name" yaml:"name"`
	MaxHealth         float64  `json:"max_health" yaml:"max_health"`
	WeaponDamage      float64  `json:"weapon_damage" yaml:"weapon_damage"`
	WeaponAbilities   []string `json:"weapon_abilities" yaml:"weapon_abilities"`
	EquippedAbilities []string `json:"equipped_abilities" yaml:"equipped_abilities"`
}

type encounterEntry struct {
	Name    string   `json:"name" yaml:"name"`
	Enemies []string `json:"enemies" yaml:"enemies"`
}

type rawConfig struct {
	Abilities  []abilityEntry   `json:"abilities" yaml:"abilities"`
	Enemies    []enemyEntry     `json:"enemies" yaml:"enemies"`
	Characters []characterEntry `json:"characters" yaml:"characters"`
	Encounters []encounterEntry `json:"encounters" yaml:"encounters"`
	Combat     *struct {
		GridWidth        int `json:"grid_width" yaml:"grid_width"`
		GridHeight       int `json:"grid_height" yaml:"grid_height"`
		MaxPlayerActions int `json:"max_player_actions" yaml:"max_player_actions"`
	} `json:"combat" yaml:"combat"`
}

// Encounter is a named list of enemy ids spawned together.
type Encounter struct {
	Name    string
	Enemies []string
}

// LoadedConfig contains the catalog to seed and the combat tuning.
type LoadedConfig struct {
	Abilities  []game.Ability
	Enemies    []game.Enemy
	Loadouts   []game.Loadout
	Encounters []Encounter

	GridWidth        int
	GridHeight       int
	MaxPlayerActions int
}

// Encounter returns the encounter with the given name.
func (c *LoadedConfig) Encounter(name string) (Encounter, bool) {
	id := keys.CatalogID(name)
	for _, e := range c.Encounters {
		if e.Name == id {
			return e, true
		}
	}
	return Encounter{}, false
}

// LoadConfig reads the catalog file at path. Files ending in .json are
// decoded as JSON, everything else as YAML.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(b, &rc)
	} else {
		err = yaml.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	lc, err := build(&rc)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return lc, nil
}

func build(rc *rawConfig) (*LoadedConfig, error) {
	if len(rc.Abilities) == 0 && len(rc.Enemies) == 0 {
		return nil, fmt.Errorf("abilities and enemies are empty (provide 'abilities' and 'enemies' arrays)")
	}
	lc := &LoadedConfig{GridWidth: 4, GridHeight: 3, MaxPlayerActions: 2}
	if rc.Combat != nil {
		if rc.Combat.GridWidth > 0 {
			lc.GridWidth = rc.Combat.GridWidth
		}
		if rc.Combat.GridHeight > 0 {
			lc.GridHeight = rc.Combat.GridHeight
		}
		if rc.Combat.MaxPlayerActions > 0 {
			lc.MaxPlayerActions = rc.Combat.MaxPlayerActions
		}
	}

	abilityKinds := make(map[string]game.AbilityKind, len(rc.Abilities))
	for _, a := range rc.Abilities {
		ab, err := buildAbility(a)
		if err != nil {
			return nil, err
		}
		if _, exists := abilityKinds[ab.Key]; exists {
			return nil, fmt.Errorf("duplicate ability id '%s'", ab.Key)
		}
		abilityKinds[ab.Key] = ab.Type
		lc.Abilities = append(lc.Abilities, ab)
	}

	resolve := func(owner string, ids []string) ([]string, error) {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			k := keys.CatalogID(id)
			if _, ok := abilityKinds[k]; !ok {
				return nil, fmt.Errorf("%s references unknown ability '%s'", owner, id)
			}
			out = append(out, k)
		}
		return out, nil
	}

	enemyIDs := make(map[string]struct{}, len(rc.Enemies))
	for _, e := range rc.Enemies {
		id := keys.CatalogID(e.ID)
		if id == "" {
			id = keys.CatalogID(e.Name)
		}
		if id == "" {
			return nil, fmt.Errorf("enemy entry missing 'id' and 'name'")
		}
		if _, exists := enemyIDs[id]; exists {
			return nil, fmt.Errorf("duplicate enemy id '%s'", id)
		}
		if e.MaxHealth <= 0 {
			return nil, fmt.Errorf("enemy '%s': max_health must be positive", id)
		}
		if e.Intelligence <= 0 {
			return nil, fmt.Errorf("enemy '%s': intelligence must be positive", id)
		}
		if e.AttackDamage < 0 {
			return nil, fmt.Errorf("enemy '%s': attack_damage must not be negative", id)
		}
		attack, err := resolve("enemy '"+id+"'", e.AttackAbilities)
		if err != nil {
			return nil, err
		}
		heal := ""
		if strings.TrimSpace(e.HealAbility) != "" {
			heal = keys.CatalogID(e.HealAbility)
			if kind, ok := abilityKinds[heal]; !ok || kind != game.KindHeal {
				return nil, fmt.Errorf("enemy '%s': heal_ability '%s' must name a heal ability", id, e.HealAbility)
			}
		}
		enemyIDs[id] = struct{}{}
		name := e.Name
		if name == "" {
			name = id
		}
		lc.Enemies = append(lc.Enemies, game.Enemy{
			Key:             id,
			Name:            name,
			MaxHealth:       e.MaxHealth,
			AttackDamage:    e.AttackDamage,
			Intelligence:    e.Intelligence,
			AttackAbilities: attack,
			HealAbility:     heal,
		})
	}

	users := make(map[string]struct{}, len(rc.Characters))
	for _, c := range rc.Characters {
		user := strings.TrimSpace(c.UserID)
		if user == "" {
			return nil, fmt.Errorf("character entry missing 'user_id'")
		}
		if _, exists := users[user]; exists {
			return nil, fmt.Errorf("duplicate character for user '%s'", user)
		}
		if c.MaxHealth <= 0 {
			return nil, fmt.Errorf("character '%s': max_health must be positive", user)
		}
		if c.WeaponDamage < 0 {
			return nil, fmt.Errorf("character '%s': weapon_damage must not be negative", user)
		}
		weapon, err := resolve("character '"+user+"'", c.WeaponAbilities)
		if err != nil {
			return nil, err
		}
		equipped, err := resolve("character '"+user+"'", c.EquippedAbilities)
		if err != nil {
			return nil, err
		}
		users[user] = struct{}{}
		lc.Loadouts = append(lc.Loadouts, game.Loadout{
			UserID:            user,
			Name:              c.Name,
			MaxHealth:         c.MaxHealth,
			WeaponDamage:      c.WeaponDamage,
			WeaponAbilities:   weapon,
			EquippedAbilities: equipped,
		})
	}

	cells := lc.GridWidth * lc.GridHeight
	for _, enc := range rc.Encounters {
		name := keys.CatalogID(enc.Name)
		if name == "" {
			return nil, fmt.Errorf("encounter entry missing 'name'")
		}
		if _, exists := lc.Encounter(name); exists {
			return nil, fmt.Errorf("duplicate encounter '%s'", name)
		}
		if len(enc.Enemies) == 0 || len(enc.Enemies) > cells {
			return nil, fmt.Errorf("encounter '%s': needs 1 to %d enemies, got %d", name, cells, len(enc.Enemies))
		}
		ids := make([]string, 0, len(enc.Enemies))
		for _, e := range enc.Enemies {
			id := keys.CatalogID(e)
			if _, ok := enemyIDs[id]; !ok {
				return nil, fmt.Errorf("encounter '%s' references unknown enemy '%s'", name, e)
			}
			ids = append(ids, id)
		}
		lc.Encounters = append(lc.Encounters, Encounter{Name: name, Enemies: ids})
	}
	return lc, nil
}

// buildAbility validates one ability entry against the parameters its type
// needs. Ignite abilities must be unique so an entity never carries two
// ignite effects.
func buildAbility(a abilityEntry) (game.Ability, error) {
	id := keys.CatalogID(a.ID)
	if id == "" {
		id = keys.CatalogID(a.Name)
	}
	if id == "" {
		return game.Ability{}, fmt.Errorf("ability entry missing 'id' and 'name'")
	}
	kind := game.AbilityKind(strings.ToLower(strings.TrimSpace(a.Type)))
	known := false
	for _, k := range game.AbilityKinds {
		if k == kind {
			known = true
		}
	}
	if !known {
		return game.Ability{}, fmt.Errorf("ability '%s': unknown type '%s'", id, a.Type)
	}
	if a.Duration != nil && *a.Duration < 0 {
		return game.Ability{}, fmt.Errorf("ability '%s': duration must not be negative", id)
	}
	switch kind {
	case game.KindIgnite:
		if !a.Unique {
			return game.Ability{}, fmt.Errorf("ability '%s': ignite abilities must be unique", id)
		}
	case game.KindParry:
		if a.Threshold <= 0 || a.Reflection < 0 {
			return game.Ability{}, fmt.Errorf("ability '%s': parry needs threshold > 0 and reflection >= 0", id)
		}
	case game.KindDefend, game.KindWeaken:
		if a.Amount < 0 {
			return game.Ability{}, fmt.Errorf("ability '%s': amount must not be negative", id)
		}
	case game.KindHeal:
		if a.Amount <= 0 {
			return game.Ability{}, fmt.Errorf("ability '%s': heal amount must be positive", id)
		}
	}
	name := a.Name
	if name == "" {
		name = id
	}
	return game.Ability{
		Key:        id,
		Name:       name,
		Type:       kind,
		Duration:   a.Duration,
		Unique:     a.Unique,
		Threshold:  a.Threshold,
		Reflection: a.Reflection,
		Amount:     a.Amount,
	}, nil
}
