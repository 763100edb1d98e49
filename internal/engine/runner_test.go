package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/session"
)

func TestRunnerStepUsesClock(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	r := NewRunner(New(config.DefaultConfig(), WithSeed(1)), clock)

	r.Do(func(e *Engine) {
		e.SetPosition()
		clearItems(e)
		e.StartSession(false)
	})

	clock.Advance(399 * time.Millisecond)
	r.Step()
	if got := r.Snapshot().Turns; got != 0 {
		t.Fatalf("turns = %d after 399ms", got)
	}

	clock.Advance(time.Millisecond)
	r.Step()
	if got := r.Snapshot().Turns; got != 1 {
		t.Errorf("turns = %d after 400ms, expected 1", got)
	}

	// No clock movement, no progress
	r.Step()
	if got := r.Snapshot().Turns; got != 1 {
		t.Errorf("turns = %d after an empty step", got)
	}
}

func TestRunnerRunStopsOnCancel(t *testing.T) {
	e := New(config.DefaultConfig(), WithSeed(1))
	r := NewRunner(e, nil)
	r.Do(func(e *Engine) {
		e.SetPosition()
		e.StartSession(false)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, 60)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	var moved bool
	r.Do(func(e *Engine) {
		before := e.Snapshot().Turns
		e.Advance(time.Hour)
		moved = e.Snapshot().Turns != before
	})
	if moved {
		t.Error("engine kept running after Run returned")
	}
	if s := r.Snapshot().State; s != session.GameRunning {
		t.Errorf("quit should freeze the state, got %v", s)
	}
}
