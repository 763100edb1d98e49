package engine

import (
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

// ItemView is an active item on the board.
type ItemView struct {
	Kind grid.CellKind `json:"kind"`
	Cell core.Vec3     `json:"cell"`
}

// Snapshot is a copy of the observable engine state for renderers and tests.
type Snapshot struct {
	State       session.State  `json:"state"`
	Previous    session.State  `json:"previous"`
	Size        int            `json:"size"`
	Snake       []core.Vec3    `json:"snake"` // Head first
	Direction   core.Direction `json:"direction"`
	Items       []ItemView     `json:"items"`
	Score       int            `json:"score"`
	Apples      int            `json:"apples"`
	Gold        int            `json:"gold"`
	Turns       int            `json:"turns"`
	HardMode    bool           `json:"hard_mode"`
	Smooth      bool           `json:"smooth"`
	Colorblind  bool           `json:"colorblind"`
	Tutorial    bool           `json:"tutorial"`
	Halted      bool           `json:"halted"` // Tutorial waiting for a new direction
	Reviving    bool           `json:"reviving"`
	RevivesLeft int            `json:"revives_left"`
	CanRevive   bool           `json:"can_revive"`
	TurnLength  time.Duration  `json:"turn_length"`
	TurnLeft    time.Duration  `json:"turn_left"`
}

// Head returns the head cell.
func (s Snapshot) Head() core.Vec3 {
	if len(s.Snake) == 0 {
		return core.Vec3{}
	}
	return s.Snake[0]
}

// TurnProgress returns how far the current turn is, in [0,1].
func (s Snapshot) TurnProgress() float64 {
	if s.TurnLength <= 0 {
		return 0
	}
	p := 1 - float64(s.TurnLeft)/float64(s.TurnLength)
	return min(max(p, 0), 1)
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	segs := e.chain.Segments()
	body := make([]core.Vec3, len(segs))
	for i, s := range segs {
		body[i] = s.Pos
	}

	active := e.items.Active()
	items := make([]ItemView, len(active))
	for i, it := range active {
		items[i] = ItemView{Kind: it.Kind, Cell: it.Pos}
	}

	snap := Snapshot{
		State:       e.fsm.State(),
		Previous:    e.fsm.Previous(),
		Size:        e.grid.Size(),
		Snake:       body,
		Direction:   e.chain.HeadDirection(),
		Items:       items,
		Score:       e.score,
		Apples:      e.apples,
		Gold:        e.gold,
		Turns:       e.turns,
		HardMode:    e.hardMode,
		Smooth:      e.smooth,
		Colorblind:  e.colorblind,
		Tutorial:    e.tutorial,
		Halted:      e.loop == loopHalted,
		Reviving:    e.reviving,
		RevivesLeft: e.RevivesLeft(),
		CanRevive:   e.CanRevive(),
	}
	if e.loop == loopWaiting {
		snap.TurnLength = e.turnLength
		snap.TurnLeft = e.turnLeft
	}
	return snap
}

// CellAt exposes the board for renderers and tests.
func (e *Engine) CellAt(p core.Vec3) grid.CellKind {
	return e.grid.CellAt(p)
}
