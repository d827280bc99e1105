package engine

import (
	"errors"
	"testing"

	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/random"
)

func TestPlacementGrid_PlaceRandomThenGet(t *testing.T) {
	g, err := NewPlacementGrid(4, 3)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	rng := random.New(42)
	for id := game.EnemyID(1); int(id) <= g.Size(); id++ {
		pos, err := g.PlaceRandom(id, rng)
		if err != nil {
			t.Fatalf("place %d: %v", id, err)
		}
		got, err := g.Get(pos)
		if err != nil || got != id {
			t.Fatalf("get %s: expected %d, got %d (%v)", pos, id, got, err)
		}
	}
	if g.Occupied() != 12 {
		t.Fatalf("expected full grid, got %d occupied", g.Occupied())
	}
	if _, err := g.PlaceRandom(99, rng); !errors.Is(err, ErrGridFull) {
		t.Fatalf("expected ErrGridFull, got %v", err)
	}
}

func TestPlacementGrid_Bounds(t *testing.T) {
	g, _ := NewPlacementGrid(2, 2)
	for _, p := range []game.GridPos{{X: -1}, {X: 2}, {Y: 2}, {X: 0, Y: -1}} {
		if _, err := g.Get(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("get %s: expected ErrOutOfBounds, got %v", p, err)
		}
		if err := g.Set(p, 1); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("set %s: expected ErrOutOfBounds, got %v", p, err)
		}
		if err := g.Clear(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("clear %s: expected ErrOutOfBounds, got %v", p, err)
		}
	}
	if _, err := NewPlacementGrid(0, 3); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected empty grid to fail, got %v", err)
	}
}

func TestPlacementGrid_SetClearAndScan(t *testing.T) {
	g, _ := NewPlacementGrid(3, 2)
	_ = g.Set(game.GridPos{X: 2, Y: 1}, 5)
	_ = g.Set(game.GridPos{X: 1, Y: 0}, 6)
	cells := g.OccupiedCells()
	if len(cells) != 2 || cells[0].ID != 6 || cells[1].ID != 5 {
		t.Fatalf("expected row-major order [6 5], got %v", cells)
	}
	if p := g.PosAt(5); p != (game.GridPos{X: 2, Y: 1}) {
		t.Fatalf("PosAt(5) = %s", p)
	}
	if id, _ := g.Get(game.GridPos{X: 2, Y: 1}); id != 5 {
		t.Fatalf("get (2,1): %d", id)
	}
	ref, _ := g.Ref(game.GridPos{X: 0, Y: 0})
	if _, ok := ref.(game.EmptyTileRef); !ok {
		t.Fatalf("expected empty tile ref, got %v", ref)
	}
	_ = g.Clear(game.GridPos{X: 2, Y: 1})
	if g.Occupied() != 1 {
		t.Fatalf("expected 1 occupied after clear, got %d", g.Occupied())
	}
	// overwriting keeps the count stable
	_ = g.Set(game.GridPos{X: 1, Y: 0}, 7)
	if g.Occupied() != 1 {
		t.Fatalf("expected overwrite to keep count, got %d", g.Occupied())
	}
}
