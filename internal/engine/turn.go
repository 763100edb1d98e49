package engine

import (
	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

func (e *Engine) startLoop() {
	e.loop = loopIdle
	e.beginTurn()
}

func (e *Engine) stopLoop() {
	e.loop = loopIdle
	e.turnLeft = 0
	e.turnLength = 0
}

// validMove reports whether the head may enter p.
// Only walls and snake cells block; items never do.
func (e *Engine) validMove(p core.Vec3) bool {
	return e.grid.InBounds(p) && e.grid.CellAt(p) != grid.Snake
}

// shouldGrow decides whether eating an apple at length n lengthens the snake.
// The random draw only happens past the always-grow length.
func (e *Engine) shouldGrow(n int) bool {
	g := e.cfg.Growth
	if n <= g.AlwaysUntil {
		return true
	}
	return e.rng.Intn(g.RandomCap)+1 > n
}

// beginTurn proposes the next head cell, moves or grows the body and starts
// waiting. An invalid target halts the loop instead.
func (e *Engine) beginTurn() {
	next := e.chain.NextHeadCell()
	if !e.validMove(next) {
		e.halt(next)
		return
	}

	dur := e.pacer.TurnDuration(config.PaceInput{
		Tutorial: e.tutorial,
		Reviving: e.reviving,
		HardMode: e.hardMode,
		Score:    e.score,
	})
	if dur < minTurn {
		dur = minTurn
	}
	e.reviving = false

	grew := e.grid.CellAt(next) == grid.Apple && e.shouldGrow(e.chain.Len())
	var vacated core.Vec3
	if grew {
		e.chain.Grow()
	} else {
		vacated = e.chain.Advance()
		e.grid.ClearCell(vacated)
	}

	e.loop = loopWaiting
	e.turnLeft = dur
	e.turnLength = dur
	e.emit(SnakeMoved{
		Head:      next,
		Direction: e.chain.HeadDirection(),
		Vacated:   vacated,
		Grew:      grew,
		Duration:  dur,
		Smooth:    e.smooth,
	})
}

// completeTurn resolves what the head landed on, marks the head cell and
// starts the next turn.
func (e *Engine) completeTurn() {
	head := e.chain.Head()
	kind := e.grid.CellAt(head)
	// Mark the head first so a respawned apple cannot land under it
	e.grid.SetCell(head, grid.Snake)
	e.consume(kind, head)

	e.turns++
	e.loop = loopIdle
	e.beginTurn()
}

func (e *Engine) consume(kind grid.CellKind, head core.Vec3) {
	it := e.cfg.Items
	delta := 0

	switch kind {
	case grid.Apple:
		delta = it.AppleScore
		e.score += delta
		e.apples++
		e.emit(ItemConsumed{Kind: kind, Cell: head, World: e.world(head), Delta: delta})
		e.placeApple()

	case grid.Gold:
		delta = it.GoldScore
		e.score += delta
		e.gold += it.GoldAmount
		e.items.RemoveGold()
		e.emit(ItemConsumed{Kind: kind, Cell: head, World: e.world(head), Delta: delta})
		e.emit(GoldChanged{Gold: e.gold})

	case grid.Hazard:
		delta = -it.HazardPenalty
		e.score += delta
		e.apples -= it.HazardPenalty
		if id, ok := e.items.HazardAt(head); ok {
			e.items.RemoveHazard(id)
		}
		e.emit(ItemConsumed{Kind: kind, Cell: head, World: e.world(head), Delta: delta})

	default:
		return
	}

	e.score = max(e.score, 0)
	e.apples = max(e.apples, 0)
	e.emit(ScoreChanged{Score: e.score, Apples: e.apples})
}

func (e *Engine) placeApple() {
	pos, err := e.items.PlaceApple()
	if err != nil {
		e.logger.Warn("cannot place apple", "err", err)
		return
	}
	e.emit(ItemPlaced{Kind: grid.Apple, Cell: pos, World: e.world(pos)})
}

// halt stops the loop on an invalid move.
func (e *Engine) halt(blocked core.Vec3) {
	e.stopLoop()
	if e.tutorial {
		e.loop = loopHalted
		e.logger.Debug("tutorial collision", "head", e.chain.Head(), "blocked", blocked)
		e.emit(TutorialCollision{Head: e.chain.Head(), Blocked: blocked})
		return
	}
	e.endRun()
}

// endRun stops the timers, moves to GameOver and records the run.
func (e *Engine) endRun() {
	e.stopTimers()
	if !e.fire(session.End) {
		return
	}

	counted := e.score - e.scoreBeforeRevive
	e.scoreBeforeRevive = e.score
	rec := RunRecord{
		Score:       e.score,
		Counted:     counted,
		Apples:      e.apples,
		GoldBalance: e.gold,
		Turns:       e.turns,
		Revives:     e.revivesUsed,
		HardMode:    e.hardMode,
	}
	if e.store != nil {
		if err := e.store.RecordRun(rec); err != nil {
			e.logger.Warn("cannot record run", "err", err)
		}
	}

	e.logger.Info("run ended", "score", e.score, "apples", e.apples, "turns", e.turns, "revives", e.revivesUsed)
	e.emit(RunEnded{
		Score:     e.score,
		Apples:    e.apples,
		Gold:      e.gold,
		Turns:     e.turns,
		Revives:   e.revivesUsed,
		HardMode:  e.hardMode,
		CanRevive: e.CanRevive(),
	})
}
