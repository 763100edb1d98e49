package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

// crashIntoWall runs the starting snake into the +x wall with no items.
func crashIntoWall(t *testing.T, e *Engine) {
	t.Helper()
	clearItems(e)
	if !e.StartSession(false) {
		t.Fatal("StartSession failed")
	}
	e.Advance(2 * time.Second)
	if e.State() != session.GameOver {
		t.Fatalf("state = %v, expected GameOver", e.State())
	}
}

func TestReviveContinuesRun(t *testing.T) {
	store := &memStore{profile: Profile{Gold: 4}}
	e, _ := newTestEngine(t, WithStore(store))
	crashIntoWall(t, e)
	e.score = 6

	// Leave gold on the board; revive must clear it
	e.items.PlaceGoldAt(core.V(0, 0, 0))
	head := e.chain.Head()

	if !e.CanRevive() {
		t.Fatal("CanRevive should be true with open neighbors")
	}
	if !e.Revive() {
		t.Fatal("Revive failed")
	}

	if e.State() != session.GameRunning {
		t.Errorf("state = %v, expected GameRunning", e.State())
	}
	if e.score != 6 {
		t.Errorf("revive changed the score to %d", e.score)
	}
	if !head.Adjacent(e.chain.Head()) {
		t.Errorf("head jumped from %v to %v", head, e.chain.Head())
	}
	if !e.grid.InBounds(e.chain.Head()) {
		t.Errorf("revive steered out of bounds to %v", e.chain.Head())
	}
	if e.turnLength != time.Second {
		t.Errorf("first revived turn = %v, expected the slow 1s", e.turnLength)
	}
	if e.grid.Count(grid.Gold) != 0 || e.items.Gold().Active {
		t.Error("revive should clear gold")
	}
	if e.RevivesLeft() != 2 {
		t.Errorf("RevivesLeft() = %d, expected 2", e.RevivesLeft())
	}

	// Only the first turn after reviving is slow
	e.Advance(time.Second)
	if e.State() == session.GameRunning && e.turnLength != 400*time.Millisecond {
		t.Errorf("second revived turn = %v, expected the normal 400ms", e.turnLength)
	}
}

func TestReviveRefusedWhenBoxedIn(t *testing.T) {
	e, _ := newTestEngine(t)
	crashIntoWall(t, e)

	head := e.chain.Head()
	for _, d := range core.Directions {
		p := head.Step(d)
		if e.grid.InBounds(p) {
			e.grid.SetCell(p, grid.Snake)
		}
	}

	if e.CanRevive() {
		t.Error("CanRevive should be false when every neighbor is blocked")
	}
	if e.Revive() {
		t.Error("Revive should be refused")
	}
	if _, queued := e.chain.QueuedDirection(); queued {
		t.Error("a refused revive must not queue a direction")
	}
	if e.State() != session.GameOver {
		t.Errorf("state = %v, expected GameOver", e.State())
	}
}

func TestReviveCap(t *testing.T) {
	e, _ := newTestEngine(t)
	crashIntoWall(t, e)

	e.revivesUsed = e.cfg.Revive.MaxPerRun
	if e.CanRevive() || e.Revive() {
		t.Error("revive should be refused once the cap is reached")
	}
}

func TestRunAverageCountsScoreSinceRevive(t *testing.T) {
	store := &memStore{}
	e, _ := newTestEngine(t, WithStore(store))
	clearItems(e)
	e.StartSession(false)
	e.score = 5
	e.Advance(2 * time.Second)
	if e.State() != session.GameOver {
		t.Fatalf("state = %v, expected GameOver", e.State())
	}

	e.Revive()
	// Drive the revived snake until it dies again
	for range 200 {
		if e.State() == session.GameOver {
			break
		}
		e.Advance(100 * time.Millisecond)
	}
	if e.State() != session.GameOver {
		t.Fatal("revived snake never died")
	}

	if len(store.runs) != 2 {
		t.Fatalf("store recorded %d runs, expected 2", len(store.runs))
	}
	first, second := store.runs[0], store.runs[1]
	if first.Score != 5 || first.Counted != 5 {
		t.Errorf("first record = %+v, expected score and counted 5", first)
	}
	if second.Revives != 1 {
		t.Errorf("second record revives = %d, expected 1", second.Revives)
	}
	if second.Counted != second.Score-5 {
		t.Errorf("counted = %d, expected score since the last record (%d-5)", second.Counted, second.Score)
	}
}

func TestTutorialCollisionWaitsForDirection(t *testing.T) {
	e, rec := newTestEngine(t)
	clearItems(e)
	if !e.StartTutorial() {
		t.Fatal("StartTutorial failed")
	}
	if e.turnLength != 500*time.Millisecond {
		t.Errorf("tutorial turn = %v, expected 500ms", e.turnLength)
	}
	if e.timersOn {
		t.Error("tutorial must not start spawn timers")
	}

	e.Advance(2500 * time.Millisecond)
	if e.State() != session.TutorialRunning {
		t.Fatalf("tutorial state = %v", e.State())
	}
	if !e.Snapshot().Halted {
		t.Fatal("tutorial should halt at the wall")
	}
	if rec.count(func(ev Event) bool { _, ok := ev.(TutorialCollision); return ok }) != 1 {
		t.Error("expected one TutorialCollision event")
	}

	// Halted time changes nothing
	e.Advance(time.Minute)
	if e.chain.Head() != core.V(9, 2, 2) {
		t.Errorf("halted head moved to %v", e.chain.Head())
	}

	if !e.SubmitDirection(core.DirPosY) {
		t.Fatal("SubmitDirection refused in halted tutorial")
	}
	if e.Snapshot().Halted || e.chain.Head() != core.V(9, 3, 2) {
		t.Errorf("tutorial did not resume: head %v", e.chain.Head())
	}

	if !e.QuitTutorial() {
		t.Fatal("QuitTutorial failed")
	}
	snap := e.Snapshot()
	if snap.State != session.WaitingToStart || snap.Head() != core.V(4, 2, 2) || snap.Tutorial {
		t.Errorf("QuitTutorial should reset to a fresh board: %+v", snap)
	}
}

func TestTutorialPauseResumesTutorial(t *testing.T) {
	e, _ := newTestEngine(t)
	e.StartTutorial()
	e.Pause()
	if !e.Resume() || e.State() != session.TutorialRunning {
		t.Errorf("resume from tutorial pause went to %v", e.State())
	}
}
