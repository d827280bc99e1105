package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/ericogr/gaia-combat/internal/catalog"
	"github.com/ericogr/gaia-combat/internal/constants"
	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/logging"
	"github.com/ericogr/gaia-combat/internal/random"
)

// MaxPlayerActionsPerRound is the default number of actions the character
// may queue each turn.
const MaxPlayerActionsPerRound = 2

// Options tune a combat.
type Options struct {
	MaxPlayerActionsPerRound int
	GridWidth                int
	GridHeight               int
	// MaxRounds stops a combat with ErrRoundLimit once exceeded. Zero means
	// no limit.
	MaxRounds int
}

func DefaultOptions() Options {
	return Options{
		MaxPlayerActionsPerRound: MaxPlayerActionsPerRound,
		GridWidth:                4,
		GridHeight:               3,
	}
}

// Dependencies are the collaborators a Manager reads from. Only Provider
// may block.
type Dependencies struct {
	Abilities catalog.Abilities
	Enemies   catalog.Enemies
	// Equipment is optional; without it no equipped abilities are applied.
	Equipment catalog.Equipment
	Provider  ActionProvider
	Sink      MessageSink
	Rand      random.Source
}

// Stats counts what happened in a combat so far.
type Stats struct {
	Rounds          int
	ActionsResolved int
	EnemiesDefeated int
	InvalidActions  int
}

// Manager runs one combat between a character and the enemies spawned on
// its placement grid.
type Manager struct {
	opts Options
	deps Dependencies

	character *game.Character
	enemies   map[game.EnemyID]*game.FightingEnemy
	grid      *PlacementGrid
	effects   *EffectManager
	machine   *fsm.FSM

	queue       []game.CombatAction
	round       int
	nextID      game.EnemyID
	stats       Stats
	rc          *roundContext
	lastSummary string
	logFields   logging.Fields
}

func NewManager(character *game.Character, deps Dependencies, opts Options) (*Manager, error) {
	if character == nil {
		return nil, errors.New("combat needs a character")
	}
	if deps.Abilities == nil || deps.Enemies == nil || deps.Provider == nil || deps.Rand == nil {
		return nil, errors.New("combat dependencies incomplete: abilities, enemies, provider and rand are required")
	}
	if deps.Sink == nil {
		deps.Sink = discardSink{}
	}
	if opts.MaxPlayerActionsPerRound <= 0 {
		opts.MaxPlayerActionsPerRound = MaxPlayerActionsPerRound
	}
	grid, err := NewPlacementGrid(opts.GridWidth, opts.GridHeight)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		opts:      opts,
		deps:      deps,
		character: character,
		enemies:   make(map[game.EnemyID]*game.FightingEnemy),
		grid:      grid,
		effects:   NewEffectManager(),
		logFields: logging.Fields{},
	}
	m.machine = newCombatFSM(m.onEnterState)
	return m, nil
}

// WithLogFields adds fields to every log line the manager writes.
func (m *Manager) WithLogFields(fields logging.Fields) *Manager {
	for k, v := range fields {
		m.logFields[k] = v
	}
	return m
}

func (m *Manager) State() State               { return State(m.machine.Current()) }
func (m *Manager) Round() int                 { return m.round }
func (m *Manager) Stats() Stats               { return m.stats }
func (m *Manager) Character() *game.Character { return m.character }
func (m *Manager) Grid() *PlacementGrid       { return m.grid }
func (m *Manager) Effects() *EffectManager    { return m.effects }
func (m *Manager) LastRoundSummary() string   { return m.lastSummary }
func (m *Manager) Enemy(id game.EnemyID) (*game.FightingEnemy, bool) {
	e, ok := m.enemies[id]
	return e, ok
}

// Enemies returns the live enemies in grid order.
func (m *Manager) Enemies() []*game.FightingEnemy {
	cells := m.grid.OccupiedCells()
	out := make([]*game.FightingEnemy, 0, len(cells))
	for _, c := range cells {
		if e, ok := m.enemies[c.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// SpawnEnemies creates one enemy per catalog key and places each on a
// random free cell.
func (m *Manager) SpawnEnemies(keys []string) ([]*game.FightingEnemy, error) {
	if m.State() != StateNotStarted {
		return nil, fmt.Errorf("spawn in %s: %w", m.State(), ErrCombatOver)
	}
	if free := m.grid.Size() - m.grid.Occupied(); len(keys) > free {
		return nil, fmt.Errorf("%d enemies for %d free cells: %w", len(keys), free, ErrGridFull)
	}
	spawned := make([]*game.FightingEnemy, 0, len(keys))
	for _, key := range keys {
		e, err := m.spawn(key)
		if err != nil {
			return spawned, err
		}
		spawned = append(spawned, e)
	}
	return spawned, nil
}

func (m *Manager) spawn(key string) (*game.FightingEnemy, error) {
	rec, err := m.deps.Enemies.Enemy(key)
	if err != nil {
		return nil, err
	}
	attack, err := MaterializeKeys(m.deps.Abilities, rec.AttackAbilities)
	if err != nil {
		return nil, fmt.Errorf("enemy %q: %w", key, err)
	}
	bindings := map[game.ActionName][]game.AbilityAction{game.ActionAttack: attack}
	if rec.HealAbility != "" {
		heal, err := MaterializeKeys(m.deps.Abilities, []string{rec.HealAbility})
		if err != nil {
			return nil, fmt.Errorf("enemy %q: %w", key, err)
		}
		bindings[game.ActionHeal] = heal
	}
	m.nextID++
	e, err := game.NewFightingEnemy(m.nextID, key, rec.Name, rec.MaxHealth, rec.AttackDamage, rec.Intelligence, bindings)
	if err != nil {
		return nil, err
	}
	pos, err := m.grid.PlaceRandom(e.ID, m.deps.Rand)
	if err != nil {
		return nil, err
	}
	e.Position = pos
	m.enemies[e.ID] = e
	return e, nil
}

// BeginCombat runs the combat until it is won, lost, abandoned or broken.
// On ErrQuit or a context error the state is left as committed so far;
// call Abandon to revert effects.
func (m *Manager) BeginCombat(ctx context.Context) (State, error) {
	if m.State() != StateNotStarted {
		return m.State(), ErrCombatOver
	}
	m.round = 1
	m.rc = newRoundContext(m.round, m.deps.Sink)
	m.character.ResetTransient()
	if err := m.applyEquipment(); err != nil {
		return m.State(), err
	}
	for {
		over, err := m.checkOutcome(ctx)
		if err != nil || over {
			return m.State(), err
		}
		if m.opts.MaxRounds > 0 && m.round > m.opts.MaxRounds {
			return m.State(), fmt.Errorf("after %d rounds: %w", m.opts.MaxRounds, ErrRoundLimit)
		}
		event := eventNextRound
		if m.State() == StateNotStarted {
			event = eventStart
		}
		if err := m.transition(ctx, event); err != nil {
			return m.State(), err
		}
		if err := m.characterTurn(ctx); err != nil {
			return m.State(), err
		}
		if err := m.transition(ctx, eventEndCharacterTurn); err != nil {
			return m.State(), err
		}
		if err := m.enemyTurn(); err != nil {
			return m.State(), err
		}
		if err := m.transition(ctx, eventEndEnemyTurn); err != nil {
			return m.State(), err
		}
		if err := m.resolveRound(); err != nil {
			return m.State(), err
		}
	}
}

// Abandon reverts every active effect after a combat stopped early.
func (m *Manager) Abandon() error {
	m.queue = nil
	return m.effects.ForceRemoveAll(m.character, m.enemies)
}

func (m *Manager) applyEquipment() error {
	if m.deps.Equipment == nil {
		return nil
	}
	keys, err := m.deps.Equipment.EquippedAbilityKeys(m.character)
	if err != nil {
		return err
	}
	abilities, err := MaterializeKeys(m.deps.Abilities, keys)
	if err != nil {
		return err
	}
	for _, a := range abilities {
		if err := m.effects.ApplyToCharacter(m.character, a); err != nil {
			return err
		}
		m.rc.addf("%s is equipped with %s", m.character.Name, a)
	}
	return nil
}

// checkOutcome moves to Won or Lost when the combat is decided. A cleared
// grid wins even if the character fell in the same round.
func (m *Manager) checkOutcome(ctx context.Context) (bool, error) {
	var event string
	switch {
	case len(m.enemies) == 0:
		event = eventWin
	case !m.character.IsAlive():
		event = eventLose
	default:
		return false, nil
	}
	if err := m.transition(ctx, event); err != nil {
		return true, err
	}
	if tail := m.rc.joinSummary(); tail != "" {
		if m.lastSummary != "" {
			m.lastSummary += "\n"
		}
		m.lastSummary += tail
	}
	return true, m.effects.ForceRemoveAll(m.character, m.enemies)
}

func (m *Manager) onEnterState(from, to State) {
	logging.Debug("combat state changed", m.fields(logging.Fields{"from": string(from), "to": string(to), constants.LogFieldRound: m.round}))
	switch to {
	case StateWon:
		m.rc.addf("%s wins after %d round(s)", m.character.Name, m.stats.Rounds)
	case StateLost:
		m.rc.addf("%s is defeated", m.character.Name)
	}
}

// ApplyAbility implements AbilityApplier by routing a to the live entity
// behind ref.
func (m *Manager) ApplyAbility(ref game.EntityRef, a game.AbilityAction) error {
	switch r := ref.(type) {
	case game.CharacterRef:
		return m.effects.ApplyToCharacter(m.character, a)
	case game.EnemyRef:
		e, ok := m.enemies[r.ID]
		if !ok {
			return fmt.Errorf("%s: %w", r, ErrUnknownEntity)
		}
		return m.effects.ApplyToEnemy(e, a)
	default:
		return fmt.Errorf("apply %s to %v: %w", a, ref, ErrUnknownEntity)
	}
}

// lookup resolves a reference to the live entity it names.
func (m *Manager) lookup(ref game.EntityRef) (*game.FightingEntity, bool) {
	switch r := ref.(type) {
	case game.CharacterRef:
		return &m.character.FightingEntity, true
	case game.EnemyRef:
		if e, ok := m.enemies[r.ID]; ok {
			return &e.FightingEntity, true
		}
	}
	return nil, false
}
