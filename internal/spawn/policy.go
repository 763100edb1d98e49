// Package spawn places apples, gold and hazards into empty grid cells and
// draws the randomized intervals that drive their timers.
package spawn

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/grid"
)

// Item is one placeable slot.
type Item struct {
	Kind   grid.CellKind
	Pos    core.Vec3
	Active bool
}

// Policy owns the apple, gold and hazard slots for one board.
type Policy struct {
	grid    *grid.Grid
	rng     *rand.Rand
	apple   Item
	gold    Item
	hazards []Item
}

// NewPolicy creates a policy with the given number of hazard slots.
func NewPolicy(g *grid.Grid, rng *rand.Rand, hazards int) *Policy {
	p := &Policy{grid: g, rng: rng}
	p.Reset(hazards)
	return p
}

// Reset deactivates every slot and resizes the hazard pool.
// It does not touch the grid; callers reset the grid themselves.
func (p *Policy) Reset(hazards int) {
	if hazards < 0 {
		hazards = 0
	}
	p.apple = Item{Kind: grid.Apple}
	p.gold = Item{Kind: grid.Gold}
	p.hazards = make([]Item, hazards)
	for i := range p.hazards {
		p.hazards[i] = Item{Kind: grid.Hazard}
	}
}

// Apple returns the apple slot.
func (p *Policy) Apple() Item {
	return p.apple
}

// Gold returns the gold slot.
func (p *Policy) Gold() Item {
	return p.gold
}

// HazardCount returns the number of hazard slots.
func (p *Policy) HazardCount() int {
	return len(p.hazards)
}

// Hazard returns hazard slot id.
func (p *Policy) Hazard(id int) Item {
	if id < 0 || id >= len(p.hazards) {
		return Item{Kind: grid.Hazard}
	}
	return p.hazards[id]
}

// Active returns every active slot: apple, gold, then hazards by id.
func (p *Policy) Active() []Item {
	var out []Item
	if p.apple.Active {
		out = append(out, p.apple)
	}
	if p.gold.Active {
		out = append(out, p.gold)
	}
	for _, h := range p.hazards {
		if h.Active {
			out = append(out, h)
		}
	}
	return out
}

// place marks a random empty cell with the slot's kind and activates it.
func (p *Policy) place(it *Item) (core.Vec3, error) {
	pos, err := p.grid.RandomEmptyCell(p.rng)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("spawn: cannot place %s: %w", it.Kind, err)
	}
	p.grid.SetCell(pos, it.Kind)
	it.Pos = pos
	it.Active = true
	return pos, nil
}

// remove deactivates the slot and clears its cell only if the cell still
// holds the slot's kind. It reports whether the slot was active.
func (p *Policy) remove(it *Item) bool {
	if !it.Active {
		return false
	}
	if p.grid.CellAt(it.Pos) == it.Kind {
		p.grid.ClearCell(it.Pos)
	}
	it.Active = false
	return true
}

// placeAt puts the slot on a specific cell. The cell must be in bounds and empty.
func (p *Policy) placeAt(it *Item, pos core.Vec3) bool {
	if !p.grid.InBounds(pos) || p.grid.CellAt(pos) != grid.Empty {
		return false
	}
	if it.Active {
		p.remove(it)
	}
	p.grid.SetCell(pos, it.Kind)
	it.Pos = pos
	it.Active = true
	return true
}

// PlaceAppleAt moves the apple to pos. Scripted boards use it.
func (p *Policy) PlaceAppleAt(pos core.Vec3) bool {
	return p.placeAt(&p.apple, pos)
}

// PlaceGoldAt puts the gold item on pos.
func (p *Policy) PlaceGoldAt(pos core.Vec3) bool {
	return p.placeAt(&p.gold, pos)
}

// PlaceHazardAt puts hazard slot id on pos.
func (p *Policy) PlaceHazardAt(id int, pos core.Vec3) bool {
	if id < 0 || id >= len(p.hazards) {
		return false
	}
	return p.placeAt(&p.hazards[id], pos)
}

// PlaceApple places the single apple.
func (p *Policy) PlaceApple() (core.Vec3, error) {
	if p.apple.Active {
		p.remove(&p.apple)
	}
	return p.place(&p.apple)
}

// PlaceGold places the gold item.
func (p *Policy) PlaceGold() (core.Vec3, error) {
	if p.gold.Active {
		p.remove(&p.gold)
	}
	return p.place(&p.gold)
}

// RemoveGold deactivates the gold item.
func (p *Policy) RemoveGold() bool {
	return p.remove(&p.gold)
}

// PlaceHazard places hazard slot id.
func (p *Policy) PlaceHazard(id int) (core.Vec3, error) {
	if id < 0 || id >= len(p.hazards) {
		return core.Vec3{}, fmt.Errorf("spawn: hazard %d out of range", id)
	}
	if p.hazards[id].Active {
		p.remove(&p.hazards[id])
	}
	return p.place(&p.hazards[id])
}

// RemoveHazard deactivates hazard slot id.
func (p *Policy) RemoveHazard(id int) bool {
	if id < 0 || id >= len(p.hazards) {
		return false
	}
	return p.remove(&p.hazards[id])
}

// HazardAt returns the id of the active hazard at pos.
func (p *Policy) HazardAt(pos core.Vec3) (int, bool) {
	for i, h := range p.hazards {
		if h.Active && h.Pos == pos {
			return i, true
		}
	}
	return 0, false
}

// ClearTimed deactivates gold and every hazard. The apple stays.
func (p *Policy) ClearTimed() {
	p.remove(&p.gold)
	for i := range p.hazards {
		p.remove(&p.hazards[i])
	}
}

// DrawInterval returns a whole number of seconds drawn uniformly from
// [min, max). Ranges shorter than a second return min.
func (p *Policy) DrawInterval(min, max time.Duration) time.Duration {
	span := int64((max - min) / time.Second)
	if span <= 0 {
		return min
	}
	return min + time.Duration(p.rng.Int63n(span))*time.Second
}
