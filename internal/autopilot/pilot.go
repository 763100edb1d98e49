// Package autopilot steers a snake without a player. It drives headless
// simulations and soak tests.
package autopilot

import (
	"context"
	"errors"
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

// ErrNotReady is returned when the engine cannot start a run.
var ErrNotReady = errors.New("autopilot: engine cannot start a run")

// Move weights.
const (
	distanceWeight = 10
	hazardPenalty  = 200
	trapPenalty    = 1000
)

// Choose picks the next direction for the snake in s. It never steers into a
// wall or the body, avoids hazards and moves that leave less room than the
// snake is long, and otherwise heads for the nearest apple or gold.
// Returns false when every move is fatal.
func Choose(s engine.Snapshot) (core.Direction, bool) {
	if len(s.Snake) == 0 {
		return 0, false
	}
	head := s.Head()

	body := make(map[core.Vec3]bool, len(s.Snake))
	for _, p := range s.Snake {
		body[p] = true
	}
	hazards := make(map[core.Vec3]bool)
	var targets []core.Vec3
	for _, it := range s.Items {
		switch it.Kind {
		case grid.Hazard:
			hazards[it.Cell] = true
		case grid.Apple, grid.Gold:
			targets = append(targets, it.Cell)
		}
	}

	best, bestScore, found := core.Direction(0), 0, false
	for _, d := range core.Directions {
		if len(s.Snake) > 1 && d == s.Direction.Opposite() {
			continue
		}
		next := head.Step(d)
		if !inBounds(next, s.Size) || body[next] {
			continue
		}

		score := 0
		if len(targets) > 0 {
			score -= distanceWeight * nearest(next, targets)
		}
		if hazards[next] {
			score -= hazardPenalty
		}
		if room(next, body, s.Size, len(s.Snake)) < len(s.Snake) {
			score -= trapPenalty
		}

		if !found || score > bestScore {
			best, bestScore, found = d, score, true
		}
	}
	return best, found
}

func inBounds(p core.Vec3, n int) bool {
	return p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n && p.Z >= 0 && p.Z < n
}

func nearest(p core.Vec3, targets []core.Vec3) int {
	d := p.Manhattan(targets[0])
	for _, t := range targets[1:] {
		d = min(d, p.Manhattan(t))
	}
	return d
}

// room counts the free cells reachable from start, stopping at limit.
func room(start core.Vec3, body map[core.Vec3]bool, n, limit int) int {
	seen := map[core.Vec3]bool{start: true}
	queue := []core.Vec3{start}
	for len(queue) > 0 && len(seen) < limit {
		p := queue[0]
		queue = queue[1:]
		for _, d := range core.Directions {
			q := p.Step(d)
			if !inBounds(q, n) || body[q] || seen[q] {
				continue
			}
			seen[q] = true
			queue = append(queue, q)
		}
	}
	return len(seen)
}

// Options controls a simulated run.
type Options struct {
	HardMode bool
	MaxTurns int  // Stop after this many turns; 0 means until the snake dies
	Revive   bool // Spend revives while they last
}

// Result summarizes a simulated run.
type Result struct {
	Score   int
	Apples  int
	Gold    int
	Turns   int
	Revives int
	Died    bool
	Elapsed time.Duration // Simulated game time
}

// Play runs one session on e with the autopilot steering, stepping engine
// time turn by turn. The engine must be waiting to start or still placing
// the board.
func Play(ctx context.Context, e *engine.Engine, opts Options) (Result, error) {
	if e.State() == session.SettingPosition {
		e.SetPosition()
	}
	if !e.StartSession(opts.HardMode) {
		return Result{}, ErrNotReady
	}

	var res Result
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		snap := e.Snapshot()
		res.Score, res.Apples, res.Gold, res.Turns = snap.Score, snap.Apples, snap.Gold, snap.Turns

		if snap.State == session.GameOver {
			if opts.Revive && e.Revive() {
				res.Revives++
				continue
			}
			res.Died = true
			return res, nil
		}
		if opts.MaxTurns > 0 && snap.Turns >= opts.MaxTurns {
			return res, nil
		}

		if d, ok := Choose(snap); ok {
			e.SubmitDirection(d)
		}
		step := max(snap.TurnLeft, time.Millisecond)
		e.Advance(step)
		res.Elapsed += step
	}
}
