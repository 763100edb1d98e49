package autopilot

import (
	"context"
	"testing"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

func snapshot(size int, dir core.Direction, body []core.Vec3, items ...engine.ItemView) engine.Snapshot {
	return engine.Snapshot{
		State:     session.GameRunning,
		Size:      size,
		Snake:     body,
		Direction: dir,
		Items:     items,
	}
}

func TestChooseHeadsForApple(t *testing.T) {
	tests := []struct {
		name  string
		apple core.Vec3
		want  core.Direction
	}{
		{"ahead", core.V(8, 5, 5), core.DirPosX},
		{"above", core.V(5, 9, 5), core.DirPosY},
		{"below", core.V(5, 0, 5), core.DirNegY},
		{"behind in z", core.V(5, 5, 1), core.DirNegZ},
	}

	body := []core.Vec3{core.V(5, 5, 5), core.V(4, 5, 5), core.V(3, 5, 5)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot(10, core.DirPosX, body, engine.ItemView{Kind: grid.Apple, Cell: tt.apple})
			got, ok := Choose(s)
			if !ok || got != tt.want {
				t.Errorf("Choose() = %v, %v; expected %v", got, ok, tt.want)
			}
		})
	}
}

func TestChooseNeverReverses(t *testing.T) {
	// Apple straight behind; the body blocks the reversal anyway
	body := []core.Vec3{core.V(5, 5, 5), core.V(4, 5, 5)}
	s := snapshot(10, core.DirPosX, body, engine.ItemView{Kind: grid.Apple, Cell: core.V(0, 5, 5)})
	got, ok := Choose(s)
	if !ok {
		t.Fatal("Choose() found no move")
	}
	if got == core.DirNegX {
		t.Error("Choose() reversed into the body")
	}
}

func TestChooseAvoidsWalls(t *testing.T) {
	// Head in a corner facing the +x wall
	body := []core.Vec3{core.V(9, 0, 0), core.V(8, 0, 0), core.V(7, 0, 0)}
	s := snapshot(10, core.DirPosX, body)
	got, ok := Choose(s)
	if !ok {
		t.Fatal("Choose() found no move")
	}
	next := body[0].Step(got)
	if !inBounds(next, 10) {
		t.Errorf("Choose() = %v steers out of bounds to %v", got, next)
	}
}

func TestChooseAvoidsHazard(t *testing.T) {
	body := []core.Vec3{core.V(5, 5, 5), core.V(4, 5, 5)}
	s := snapshot(10, core.DirPosX, body,
		engine.ItemView{Kind: grid.Apple, Cell: core.V(9, 5, 5)},
		engine.ItemView{Kind: grid.Hazard, Cell: core.V(6, 5, 5)},
	)
	got, ok := Choose(s)
	if !ok {
		t.Fatal("Choose() found no move")
	}
	if got == core.DirPosX {
		t.Error("Choose() walked into the hazard")
	}
}

func TestChooseBoxedIn(t *testing.T) {
	// 2x2x2 grid fully covered by the body
	body := []core.Vec3{
		core.V(0, 0, 0), core.V(1, 0, 0), core.V(1, 1, 0), core.V(0, 1, 0),
		core.V(0, 1, 1), core.V(1, 1, 1), core.V(1, 0, 1), core.V(0, 0, 1),
	}
	s := snapshot(2, core.DirNegX, body)
	if d, ok := Choose(s); ok {
		t.Errorf("Choose() = %v, expected no move", d)
	}
}

func TestChoosePrefersRoom(t *testing.T) {
	// Size 3 grid. Moving -z from the head enters a one-cell pocket sealed by
	// the body, even though the apple sits just past it.
	body := []core.Vec3{
		core.V(1, 0, 1),
		core.V(2, 0, 1), core.V(2, 0, 0), core.V(2, 1, 0), core.V(1, 1, 0),
		core.V(0, 1, 0), core.V(0, 0, 0),
	}
	s := snapshot(3, core.DirNegX, body, engine.ItemView{Kind: grid.Apple, Cell: core.V(1, 0, 0)})
	got, ok := Choose(s)
	if !ok {
		t.Fatal("Choose() found no move")
	}
	if got == core.DirNegZ {
		t.Error("Choose() entered a dead-end pocket")
	}
}

func TestPlayRespectsMaxTurns(t *testing.T) {
	e := engine.New(config.DefaultConfig(), engine.WithSeed(3))
	res, err := Play(context.Background(), e, Options{MaxTurns: 50})
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if res.Died {
		if res.Turns > 50 {
			t.Errorf("Turns = %d after death, expected at most 50", res.Turns)
		}
		return
	}
	if res.Turns != 50 {
		t.Errorf("Turns = %d, expected 50", res.Turns)
	}
	if res.Elapsed <= 0 {
		t.Error("Elapsed should count simulated time")
	}
}

func TestPlayRefusesRunningEngine(t *testing.T) {
	e := engine.New(config.DefaultConfig(), engine.WithSeed(3))
	e.SetPosition()
	e.StartSession(false)
	if _, err := Play(context.Background(), e, Options{MaxTurns: 1}); err != ErrNotReady {
		t.Errorf("Play() err = %v, expected ErrNotReady", err)
	}
}

func TestPlayHonorsContext(t *testing.T) {
	e := engine.New(config.DefaultConfig(), engine.WithSeed(3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Play(ctx, e, Options{}); err != context.Canceled {
		t.Errorf("Play() err = %v, expected context.Canceled", err)
	}
}

// checkBoard verifies that the board and the snapshot agree.
func checkBoard(t *testing.T, e *engine.Engine) {
	t.Helper()
	s := e.Snapshot()

	if s.Score < 0 || s.Apples < 0 || s.Gold < 0 {
		t.Fatalf("negative counters: score %d apples %d gold %d", s.Score, s.Apples, s.Gold)
	}

	seen := make(map[core.Vec3]bool, len(s.Snake))
	for i, p := range s.Snake {
		if !inBounds(p, s.Size) {
			t.Fatalf("segment %d out of bounds at %v", i, p)
		}
		if seen[p] {
			t.Fatalf("segment %d overlaps the body at %v", i, p)
		}
		seen[p] = true
		if i > 0 {
			if !p.Adjacent(s.Snake[i-1]) {
				t.Fatalf("segment %d at %v is not adjacent to %v", i, p, s.Snake[i-1])
			}
			if e.CellAt(p) != grid.Snake {
				t.Fatalf("segment %d at %v is %v on the board", i, p, e.CellAt(p))
			}
		}
	}

	snakeCells := 0
	for x := range s.Size {
		for y := range s.Size {
			for z := range s.Size {
				if e.CellAt(core.V(x, y, z)) == grid.Snake {
					snakeCells++
					if !seen[core.V(x, y, z)] {
						t.Fatalf("board has a stray snake cell at %v", core.V(x, y, z))
					}
				}
			}
		}
	}
	if snakeCells < len(s.Snake)-1 || snakeCells > len(s.Snake) {
		t.Fatalf("board has %d snake cells for a %d-segment snake", snakeCells, len(s.Snake))
	}

	for _, it := range s.Items {
		if e.CellAt(it.Cell) != it.Kind {
			t.Fatalf("%v item at %v but the board holds %v", it.Kind, it.Cell, e.CellAt(it.Cell))
		}
	}
}

func TestSoakBoardInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("soak test")
	}

	for seed := int64(1); seed <= 5; seed++ {
		e := engine.New(config.DefaultConfig(), engine.WithSeed(seed))
		e.SetPosition()
		if !e.StartSession(seed%2 == 0) {
			t.Fatalf("seed %d: StartSession failed", seed)
		}

		revives := 0
		for turn := 0; turn < 600; turn++ {
			s := e.Snapshot()
			if s.State == session.GameOver {
				if !e.Revive() {
					break
				}
				revives++
				continue
			}
			if d, ok := Choose(s); ok {
				e.SubmitDirection(d)
			}
			e.Advance(max(s.TurnLeft, 1))
			checkBoard(t, e)
		}
		if revives > config.DefaultConfig().Revive.MaxPerRun {
			t.Errorf("seed %d: %d revives exceeds the cap", seed, revives)
		}
	}
}
