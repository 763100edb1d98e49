package engine

import (
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

// openNeighbors returns the directions from the head into in-bounds,
// non-snake cells, in canonical direction order.
func (e *Engine) openNeighbors() []core.Direction {
	head := e.chain.Head()
	var open []core.Direction
	for _, d := range core.Directions {
		p := head.Step(d)
		if e.grid.InBounds(p) && e.grid.CellAt(p) != grid.Snake {
			open = append(open, d)
		}
	}
	return open
}

// RevivesLeft returns how many revives this run still has.
func (e *Engine) RevivesLeft() int {
	return max(e.cfg.Revive.MaxPerRun-e.revivesUsed, 0)
}

// CanRevive reports whether Revive would succeed.
func (e *Engine) CanRevive() bool {
	if e.quit || e.tutorial || e.fsm.State() != session.GameOver {
		return false
	}
	if e.RevivesLeft() == 0 {
		return false
	}
	return len(e.openNeighbors()) > 0
}

// Revive continues a finished run. The head turns toward a random open
// neighbor, gold and hazards are cleared, the gold balance is reloaded and
// the first turn runs at the slow revive pace. Score and body are kept.
func (e *Engine) Revive() bool {
	if !e.CanRevive() {
		e.logger.Debug("revive refused", "state", e.fsm.State(), "left", e.RevivesLeft())
		return false
	}

	open := e.openNeighbors()
	d := open[e.rng.Intn(len(open))]
	e.chain.SetNextDirection(d)

	e.clearTimedItems()
	e.reloadGold()

	e.revivesUsed++
	e.reviving = true
	e.fire(session.Revive)
	e.logger.Info("run revived", "dir", d, "left", e.RevivesLeft())

	e.startTimers()
	e.startLoop()
	return true
}
