package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

// slowConfig makes turns last an hour so the snake stays put while the
// spawn timers cycle.
func slowConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Pacing.Base = time.Hour
	return cfg
}

type stamped struct {
	at time.Duration
	ev Event
}

func TestGoldCycle(t *testing.T) {
	e := New(slowConfig(), WithSeed(11))
	e.SetPosition()

	var now time.Duration
	var log []stamped
	e.Subscribe(func(ev Event) {
		switch v := ev.(type) {
		case ItemPlaced:
			if v.Kind == grid.Gold {
				log = append(log, stamped{now, ev})
			}
		case ItemRemoved:
			if v.Kind == grid.Gold {
				log = append(log, stamped{now, ev})
			}
		}
	})

	e.StartSession(false)
	for now < 2*time.Minute {
		now += time.Second
		e.Advance(time.Second)
		if n := e.grid.Count(grid.Gold); n > 1 {
			t.Fatalf("%d gold items on the board", n)
		}
	}

	if len(log) < 4 {
		t.Fatalf("only %d gold events in two minutes", len(log))
	}
	var placedAt time.Duration
	for i, s := range log {
		_, placed := s.ev.(ItemPlaced)
		if placed != (i%2 == 0) {
			t.Fatalf("gold events do not alternate place/remove at %d", i)
		}
		if placed {
			placedAt = s.at
			continue
		}
		// Visible for the same delay it waited before appearing
		visible := s.at - placedAt
		if visible < 10*time.Second || visible >= 20*time.Second {
			t.Errorf("gold visible for %v, expected [10s,20s)", visible)
		}
	}
	first := log[0].at
	if first < 10*time.Second || first >= 20*time.Second {
		t.Errorf("first gold after %v, expected [10s,20s)", first)
	}
	if log[1].at-log[0].at != first {
		t.Errorf("gold removed after %v, expected the same delay %v", log[1].at-log[0].at, first)
	}
}

func TestHazardsCycleIndependently(t *testing.T) {
	e := New(slowConfig(), WithSeed(5))
	e.SetPosition()

	placed := make(map[int]int)
	e.Subscribe(func(ev Event) {
		if p, ok := ev.(ItemPlaced); ok && p.Kind == grid.Hazard {
			placed[p.Slot]++
		}
	})

	e.StartSession(false)
	for range 180 {
		e.Advance(time.Second)
		if n := e.grid.Count(grid.Hazard); n > 5 {
			t.Fatalf("%d hazards on a 5-slot board", n)
		}
	}

	if len(placed) != 5 {
		t.Errorf("only %d hazard slots ever appeared", len(placed))
	}
}

func TestTimersStopOnGameOver(t *testing.T) {
	e, _ := newTestEngine(t)
	clearItems(e)
	e.StartSession(false)
	e.Advance(2 * time.Second)
	if e.State() != session.GameOver {
		t.Fatalf("state = %v", e.State())
	}
	if e.timersOn || len(e.hazardTimers) != 0 {
		t.Error("timers should stop with the run")
	}
}

func TestSameInstantOrder(t *testing.T) {
	e := New(slowConfig(), WithSeed(8))
	e.SetPosition()
	e.StartSession(false)

	// Line every deadline up on the same instant
	e.turnLeft = time.Second
	e.goldTimer.left = time.Second
	for i := range e.hazardTimers {
		e.hazardTimers[i].left = time.Second
	}

	var order []string
	e.Subscribe(func(ev Event) {
		switch v := ev.(type) {
		case SnakeMoved:
			order = append(order, "turn")
		case ItemPlaced:
			if v.Kind == grid.Gold {
				order = append(order, "gold")
			} else if v.Kind == grid.Hazard {
				order = append(order, "hazard")
			}
		}
	})
	e.Advance(time.Second)

	if len(order) < 3 || order[0] != "turn" || order[1] != "gold" || order[2] != "hazard" {
		t.Errorf("same-instant order = %v, expected turn, gold, hazards", order)
	}
}
