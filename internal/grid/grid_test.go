package grid

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/snake3d/internal/core"
)

func TestOutOfBoundsIsEmpty(t *testing.T) {
	g := New(10)

	outside := []core.Vec3{
		core.V(-1, 0, 0),
		core.V(0, -1, 0),
		core.V(0, 0, -1),
		core.V(10, 0, 0),
		core.V(0, 10, 0),
		core.V(0, 0, 10),
	}

	for _, p := range outside {
		if g.InBounds(p) {
			t.Errorf("%v should be out of bounds", p)
		}
		// Writes are ignored and reads return Empty
		g.SetCell(p, Snake)
		if got := g.CellAt(p); got != Empty {
			t.Errorf("CellAt(%v) = %v, expected empty", p, got)
		}
	}
	if g.Count(Empty) != g.Capacity() {
		t.Error("out-of-bounds writes must not touch the grid")
	}
}

func TestSetCell(t *testing.T) {
	g := New(10)
	p := core.V(3, 4, 5)

	g.SetCell(p, Apple)
	if got := g.CellAt(p); got != Apple {
		t.Fatalf("CellAt = %v, expected apple", got)
	}

	// Invalid kinds are ignored
	g.SetCell(p, CellKind(99))
	if got := g.CellAt(p); got != Apple {
		t.Errorf("invalid kind overwrote cell: %v", got)
	}

	g.ClearCell(p)
	if got := g.CellAt(p); got != Empty {
		t.Errorf("after ClearCell got %v", got)
	}
}

func TestCellsAreDistinct(t *testing.T) {
	g := New(4)
	g.SetCell(core.V(1, 2, 3), Gold)

	for z := 0; z < 4; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				p := core.V(x, y, z)
				want := Empty
				if p == core.V(1, 2, 3) {
					want = Gold
				}
				if got := g.CellAt(p); got != want {
					t.Errorf("CellAt(%v) = %v, expected %v", p, got, want)
				}
			}
		}
	}
}

func TestRandomEmptyCell(t *testing.T) {
	g := New(3)
	rng := rand.New(rand.NewSource(7))

	// Fill all but one cell
	hole := core.V(2, 1, 0)
	for z := 0; z < 3; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 3; x++ {
				if p := core.V(x, y, z); p != hole {
					g.SetCell(p, Snake)
				}
			}
		}
	}

	for range 20 {
		p, err := g.RandomEmptyCell(rng)
		if err != nil {
			t.Fatalf("RandomEmptyCell failed: %v", err)
		}
		if p != hole {
			t.Fatalf("RandomEmptyCell = %v, expected %v", p, hole)
		}
	}

	g.SetCell(hole, Hazard)
	if _, err := g.RandomEmptyCell(rng); !errors.Is(err, ErrGridFull) {
		t.Errorf("expected ErrGridFull, got %v", err)
	}
}

func TestRandomEmptyCellDeterministic(t *testing.T) {
	g1 := New(10)
	g2 := New(10)
	r1 := rand.New(rand.NewSource(99))
	r2 := rand.New(rand.NewSource(99))

	for range 50 {
		p1, err1 := g1.RandomEmptyCell(r1)
		p2, err2 := g2.RandomEmptyCell(r2)
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v %v", err1, err2)
		}
		if p1 != p2 {
			t.Fatalf("same seed gave %v and %v", p1, p2)
		}
		g1.SetCell(p1, Snake)
		g2.SetCell(p2, Snake)
	}
}

func TestLayer(t *testing.T) {
	g := New(5)
	g.SetCell(core.V(1, 2, 3), Apple)
	g.SetCell(core.V(1, 1, 3), Snake)

	layer := g.Layer(2, nil)
	if len(layer) != 5 || len(layer[0]) != 5 {
		t.Fatalf("layer dims = %dx%d", len(layer), len(layer[0]))
	}
	if layer[3][1] != Apple {
		t.Errorf("layer[3][1] = %v, expected apple", layer[3][1])
	}
	if g.Layer(1, layer)[3][1] != Snake {
		t.Error("reused layer buffer should be refilled")
	}
}
