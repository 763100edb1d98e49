package engine

import (
	"context"
	"sync"
	"time"
)

// Runner serializes access to one Engine and drives it from a Clock.
// Every engine call from another goroutine must go through Do.
type Runner struct {
	mu    sync.Mutex
	eng   *Engine
	clock Clock
	last  time.Time
}

// NewRunner creates a runner. A nil clock uses the system clock.
func NewRunner(e *Engine, clock Clock) *Runner {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Runner{eng: e, clock: clock, last: clock.Now()}
}

// Do runs fn with exclusive access to the engine.
// Event listeners run inside Do and must not call Do themselves.
func (r *Runner) Do(fn func(e *Engine)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.eng)
}

// Step advances the engine by the time elapsed since the previous step.
func (r *Runner) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	dt := now.Sub(r.last)
	r.last = now
	if dt > 0 {
		r.eng.Advance(dt)
	}
}

// Snapshot returns a consistent snapshot of the engine.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eng.Snapshot()
}

// Run steps the engine tickRate times per second until ctx is cancelled,
// then quits the engine.
func (r *Runner) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		tickRate = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Do(func(e *Engine) { e.Quit() })
			return ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
}
