// Package grid holds the fixed-size 3D voxel board recording what occupies
// each cell.
package grid

import (
	"errors"
	"math/rand"

	"github.com/vovakirdan/snake3d/internal/core"
)

// ErrGridFull is returned by RandomEmptyCell when no empty cell exists.
var ErrGridFull = errors.New("grid: no empty cell left")

// CellKind is what occupies a single cell.
type CellKind uint8

const (
	Empty CellKind = iota
	Snake
	Apple
	Gold
	Hazard
)

// Valid reports whether k is one of the known kinds.
func (k CellKind) Valid() bool {
	return k <= Hazard
}

// String returns a lowercase name for the kind.
func (k CellKind) String() string {
	switch k {
	case Empty:
		return "empty"
	case Snake:
		return "snake"
	case Apple:
		return "apple"
	case Gold:
		return "gold"
	case Hazard:
		return "hazard"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// sampleAttempts bounds rejection sampling before falling back to a scan.
const sampleAttempts = 64

// Grid is a cubic board of side Size. Cells are stored flat, x fastest.
type Grid struct {
	size  int
	cells []CellKind
}

// New creates an empty grid of side n.
func New(n int) *Grid {
	if n < 1 {
		n = 1
	}
	return &Grid{
		size:  n,
		cells: make([]CellKind, n*n*n),
	}
}

// Size returns the side length.
func (g *Grid) Size() int {
	return g.size
}

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p core.Vec3) bool {
	return p.X >= 0 && p.X < g.size &&
		p.Y >= 0 && p.Y < g.size &&
		p.Z >= 0 && p.Z < g.size
}

func (g *Grid) index(p core.Vec3) int {
	return (p.Z*g.size+p.Y)*g.size + p.X
}

// CellAt returns the kind at p. Out-of-bounds queries return Empty.
func (g *Grid) CellAt(p core.Vec3) CellKind {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[g.index(p)]
}

// SetCell stores kind at p. Out-of-bounds positions and unknown kinds are ignored.
func (g *Grid) SetCell(p core.Vec3, kind CellKind) {
	if !g.InBounds(p) || !kind.Valid() {
		return
	}
	g.cells[g.index(p)] = kind
}

// ClearCell sets p to Empty.
func (g *Grid) ClearCell(p core.Vec3) {
	g.SetCell(p, Empty)
}

// Reset clears every cell.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = Empty
	}
}

// Count returns how many cells hold kind.
func (g *Grid) Count(kind CellKind) int {
	n := 0
	for _, c := range g.cells {
		if c == kind {
			n++
		}
	}
	return n
}

// Capacity returns the total number of cells.
func (g *Grid) Capacity() int {
	return len(g.cells)
}

// RandomEmptyCell draws uniformly random coordinates until it finds an empty
// cell. After a bounded number of misses it picks uniformly among the
// remaining empty cells instead, and returns ErrGridFull if there are none.
func (g *Grid) RandomEmptyCell(rng *rand.Rand) (core.Vec3, error) {
	for range sampleAttempts {
		p := core.V(rng.Intn(g.size), rng.Intn(g.size), rng.Intn(g.size))
		if g.CellAt(p) == Empty {
			return p, nil
		}
	}

	free := g.Count(Empty)
	if free == 0 {
		return core.Vec3{}, ErrGridFull
	}
	pick := rng.Intn(free)
	for i, c := range g.cells {
		if c != Empty {
			continue
		}
		if pick == 0 {
			return g.coord(i), nil
		}
		pick--
	}
	return core.Vec3{}, ErrGridFull
}

func (g *Grid) coord(i int) core.Vec3 {
	x := i % g.size
	i /= g.size
	y := i % g.size
	z := i / g.size
	return core.V(x, y, z)
}

// Layer copies the Y=y slice into dst indexed [z][x], allocating if needed.
// Renderers draw the cube one horizontal layer at a time.
func (g *Grid) Layer(y int, dst [][]CellKind) [][]CellKind {
	if len(dst) != g.size {
		dst = make([][]CellKind, g.size)
	}
	for z := 0; z < g.size; z++ {
		if len(dst[z]) != g.size {
			dst[z] = make([]CellKind, g.size)
		}
		for x := 0; x < g.size; x++ {
			dst[z][x] = g.CellAt(core.V(x, y, z))
		}
	}
	return dst
}
