package engine

import "github.com/vovakirdan/snake3d/internal/grid"

func (e *Engine) newGoldTimer() cycleTimer {
	d := max(e.items.DrawInterval(e.cfg.Items.GoldIntervalMin, e.cfg.Items.GoldIntervalMax), minTurn)
	return cycleTimer{delay: d, left: d}
}

func (e *Engine) newHazardTimer() cycleTimer {
	d := max(e.items.DrawInterval(e.cfg.Items.HazardIntervalMin, e.cfg.Items.HazardIntervalMax), minTurn)
	return cycleTimer{delay: d, left: d}
}

// startTimers starts the gold timer and one timer per hazard slot.
func (e *Engine) startTimers() {
	e.timersOn = true
	e.goldTimer = e.newGoldTimer()
	e.hazardTimers = make([]cycleTimer, e.items.HazardCount())
	for i := range e.hazardTimers {
		e.hazardTimers[i] = e.newHazardTimer()
	}
}

// stopTimers cancels every spawn timer. Items already on the board stay.
func (e *Engine) stopTimers() {
	e.timersOn = false
	e.goldTimer = cycleTimer{}
	e.hazardTimers = nil
}

func (e *Engine) cycleGold() {
	t := &e.goldTimer
	if !t.placed {
		t.placed = true
		t.left = t.delay
		pos, err := e.items.PlaceGold()
		if err != nil {
			e.logger.Warn("cannot place gold", "err", err)
			return
		}
		e.emit(ItemPlaced{Kind: grid.Gold, Cell: pos, World: e.world(pos)})
		return
	}

	pos := e.items.Gold().Pos
	if e.items.RemoveGold() {
		e.emit(ItemRemoved{Kind: grid.Gold, Cell: pos, World: e.world(pos)})
	}
	*t = e.newGoldTimer()
}

func (e *Engine) cycleHazard(id int) {
	t := &e.hazardTimers[id]
	if !t.placed {
		t.placed = true
		t.left = t.delay
		pos, err := e.items.PlaceHazard(id)
		if err != nil {
			e.logger.Warn("cannot place hazard", "id", id, "err", err)
			return
		}
		e.emit(ItemPlaced{Kind: grid.Hazard, Slot: id, Cell: pos, World: e.world(pos)})
		return
	}

	pos := e.items.Hazard(id).Pos
	if e.items.RemoveHazard(id) {
		e.emit(ItemRemoved{Kind: grid.Hazard, Slot: id, Cell: pos, World: e.world(pos)})
	}
	*t = e.newHazardTimer()
}

// clearTimedItems removes gold and every hazard from the board.
func (e *Engine) clearTimedItems() {
	if g := e.items.Gold(); g.Active {
		e.items.RemoveGold()
		e.emit(ItemRemoved{Kind: grid.Gold, Cell: g.Pos, World: e.world(g.Pos)})
	}
	for id := range e.items.HazardCount() {
		if h := e.items.Hazard(id); h.Active {
			e.items.RemoveHazard(id)
			e.emit(ItemRemoved{Kind: grid.Hazard, Slot: id, Cell: h.Pos, World: e.world(h.Pos)})
		}
	}
}
