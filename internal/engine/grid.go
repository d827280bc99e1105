package engine

import (
	"fmt"

	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/random"
)

// PlacementGrid is the fixed-size board enemies stand on. Cells are stored
// row-major; game.NoEnemy marks an empty cell.
type PlacementGrid struct {
	width, height int
	cells         []game.EnemyID
	occupied      int
}

// Cell is one occupied grid position.
type Cell struct {
	Pos game.GridPos
	ID  game.EnemyID
}

func NewPlacementGrid(width, height int) (*PlacementGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, ErrOutOfBounds)
	}
	return &PlacementGrid{width: width, height: height, cells: make([]game.EnemyID, width*height)}, nil
}

func (g *PlacementGrid) Size() int     { return len(g.cells) }
func (g *PlacementGrid) Occupied() int { return g.occupied }

func (g *PlacementGrid) index(p game.GridPos) (int, error) {
	if p.X < 0 || p.Y < 0 || p.X >= g.width || p.Y >= g.height {
		return 0, fmt.Errorf("%s on %dx%d grid: %w", p, g.width, g.height, ErrOutOfBounds)
	}
	return p.Y*g.width + p.X, nil
}

// PosAt converts a linear cell index back into a coordinate.
func (g *PlacementGrid) PosAt(i int) game.GridPos {
	return game.GridPos{X: i % g.width, Y: i / g.width}
}

// Get returns the enemy at p, or game.NoEnemy.
func (g *PlacementGrid) Get(p game.GridPos) (game.EnemyID, error) {
	i, err := g.index(p)
	if err != nil {
		return game.NoEnemy, err
	}
	return g.cells[i], nil
}

// Set places id at p. Setting game.NoEnemy clears the cell.
func (g *PlacementGrid) Set(p game.GridPos, id game.EnemyID) error {
	i, err := g.index(p)
	if err != nil {
		return err
	}
	if g.cells[i] != game.NoEnemy {
		g.occupied--
	}
	if id != game.NoEnemy {
		g.occupied++
	}
	g.cells[i] = id
	return nil
}

func (g *PlacementGrid) Clear(p game.GridPos) error {
	return g.Set(p, game.NoEnemy)
}

// PlaceRandom puts id on a uniformly chosen empty cell.
func (g *PlacementGrid) PlaceRandom(id game.EnemyID, rng random.Source) (game.GridPos, error) {
	free := g.Size() - g.occupied
	if free == 0 {
		return game.GridPos{}, ErrGridFull
	}
	n := rng.Intn(free)
	for i, c := range g.cells {
		if c != game.NoEnemy {
			continue
		}
		if n == 0 {
			p := g.PosAt(i)
			return p, g.Set(p, id)
		}
		n--
	}
	return game.GridPos{}, ErrGridFull
}

// OccupiedCells lists every occupied cell in linear index order.
func (g *PlacementGrid) OccupiedCells() []Cell {
	out := make([]Cell, 0, g.occupied)
	for i, c := range g.cells {
		if c != game.NoEnemy {
			out = append(out, Cell{Pos: g.PosAt(i), ID: c})
		}
	}
	return out
}

// Ref returns the entity reference for the cell at p.
func (g *PlacementGrid) Ref(p game.GridPos) (game.EntityRef, error) {
	id, err := g.Get(p)
	if err != nil {
		return nil, err
	}
	if id == game.NoEnemy {
		return game.EmptyTileRef{Position: p}, nil
	}
	return game.EnemyRef{ID: id, Position: p}, nil
}
