package game

import "fmt"

// EnemyID identifies an enemy spawned for one encounter. NoEnemy (0) marks
// an empty grid cell.
type EnemyID uint

const NoEnemy EnemyID = 0

// GridPos is a cell coordinate on the enemy placement grid.
type GridPos struct {
	X int
	Y int
}

func (p GridPos) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// EntityRef names a combat participant by tag and id only. It never holds a
// live handle; the combat manager resolves it when an action is resolved.
type EntityRef interface {
	String() string
	isEntityRef()
}

// CharacterRef refers to the player's character.
type CharacterRef struct{}

// EnemyRef refers to a spawned enemy.
type EnemyRef struct {
	ID       EnemyID
	Position GridPos
}

// EmptyTileRef refers to a grid cell with nobody on it.
type EmptyTileRef struct {
	Position GridPos
}

func (CharacterRef) isEntityRef() {}
func (EnemyRef) isEntityRef()     {}
func (EmptyTileRef) isEntityRef() {}

func (CharacterRef) String() string   { return "character" }
func (r EnemyRef) String() string     { return fmt.Sprintf("enemy #%d at %s", r.ID, r.Position) }
func (r EmptyTileRef) String() string { return "empty tile at " + r.Position.String() }
