// Package catalog exposes read-only lookups over ability, enemy and loadout
// data. Combat only ever reads an in-memory snapshot so lookups never block.
package catalog

import (
	"errors"
	"fmt"

	"github.com/ericogr/gaia-combat/internal/game"
)

var ErrNotFound = errors.New("catalog entry not found")

// Abilities resolves an ability key to its catalog entry.
type Abilities interface {
	Ability(key string) (game.Ability, error)
}

// Enemies resolves an enemy key to its catalog entry.
type Enemies interface {
	Enemy(key string) (game.Enemy, error)
}

// Equipment returns the ability keys bound to a character's equipped items.
type Equipment interface {
	EquippedAbilityKeys(c *game.Character) ([]string, error)
}

// Memory is an immutable snapshot implementing every lookup.
type Memory struct {
	abilities map[string]game.Ability
	enemies   map[string]game.Enemy
	loadouts  map[string]game.Loadout
}

func NewMemory(abilities []game.Ability, enemies []game.Enemy, loadouts []game.Loadout) *Memory {
	m := &Memory{
		abilities: make(map[string]game.Ability, len(abilities)),
		enemies:   make(map[string]game.Enemy, len(enemies)),
		loadouts:  make(map[string]game.Loadout, len(loadouts)),
	}
	for _, a := range abilities {
		m.abilities[a.Key] = a
	}
	for _, e := range enemies {
		m.enemies[e.Key] = e
	}
	for _, l := range loadouts {
		m.loadouts[l.UserID] = l
	}
	return m
}

func (m *Memory) Ability(key string) (game.Ability, error) {
	a, ok := m.abilities[key]
	if !ok {
		return game.Ability{}, fmt.Errorf("ability %q: %w", key, ErrNotFound)
	}
	return a, nil
}

func (m *Memory) Enemy(key string) (game.Enemy, error) {
	e, ok := m.enemies[key]
	if !ok {
		return game.Enemy{}, fmt.Errorf("enemy %q: %w", key, ErrNotFound)
	}
	return e, nil
}

func (m *Memory) Loadout(userID string) (game.Loadout, error) {
	l, ok := m.loadouts[userID]
	if !ok {
		return game.Loadout{}, fmt.Errorf("loadout for user %q: %w", userID, ErrNotFound)
	}
	return l, nil
}

// EquippedAbilityKeys looks the character up by its owning user.
func (m *Memory) EquippedAbilityKeys(c *game.Character) ([]string, error) {
	l, err := m.Loadout(c.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(l.EquippedAbilities))
	copy(out, l.EquippedAbilities)
	return out, nil
}
