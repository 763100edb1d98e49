package engine

import (
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

// Event is a notification for presentation layers.
type Event interface {
	engineEvent()
}

// StateChanged is emitted after every session transition.
type StateChanged struct {
	From session.State
	To   session.State
}

func (StateChanged) engineEvent() {}

// ScoreChanged is emitted when the score or the apple counter changes.
type ScoreChanged struct {
	Score  int
	Apples int
}

func (ScoreChanged) engineEvent() {}

// GoldChanged is emitted when the gold balance changes.
type GoldChanged struct {
	Gold int
}

func (GoldChanged) engineEvent() {}

// ItemConsumed is emitted when the head lands on an item.
type ItemConsumed struct {
	Kind  grid.CellKind
	Cell  core.Vec3
	World core.WorldPos
	Delta int // Score change before clamping, e.g. +1, +3, -2
}

func (ItemConsumed) engineEvent() {}

// ItemPlaced is emitted when an item appears on the board.
// Slot is the hazard id for hazards and zero otherwise.
type ItemPlaced struct {
	Kind  grid.CellKind
	Slot  int
	Cell  core.Vec3
	World core.WorldPos
}

func (ItemPlaced) engineEvent() {}

// ItemRemoved is emitted when a timed item disappears without being eaten.
type ItemRemoved struct {
	Kind  grid.CellKind
	Slot  int
	Cell  core.Vec3
	World core.WorldPos
}

func (ItemRemoved) engineEvent() {}

// SnakeMoved is emitted at the start of every turn, after the body moved.
type SnakeMoved struct {
	Head      core.Vec3
	Direction core.Direction
	Vacated   core.Vec3
	Grew      bool // Vacated is meaningless when true
	Duration  time.Duration
	Smooth    bool
}

func (SnakeMoved) engineEvent() {}

// TutorialCollision is emitted when the tutorial snake hits something.
// The loop resumes on the next submitted direction.
type TutorialCollision struct {
	Head    core.Vec3
	Blocked core.Vec3
}

func (TutorialCollision) engineEvent() {}

// RunEnded is emitted on GameOver with the run's totals.
type RunEnded struct {
	Score     int
	Apples    int
	Gold      int
	Turns     int
	Revives   int
	HardMode  bool
	CanRevive bool
}

func (RunEnded) engineEvent() {}
