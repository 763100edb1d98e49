// Package feed streams engine events to websocket clients and accepts their
// controls. Every connection plays its own engine.
package feed

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/engine"
)

// Message types from client to server.
const (
	CmdPlace        = "p" // Fix the board position
	CmdCancel       = "c" // Back to positioning
	CmdStart        = "s" // Start a run, h=1 for hard mode
	CmdTutorial     = "u"
	CmdQuitTutorial = "q"
	CmdDirection    = "d" // d: "+x", "-y", ...
	CmdPause        = "z"
	CmdResume       = "r"
	CmdRestart      = "n"
	CmdRevive       = "v"
	CmdSmooth       = "m" // o=1 enables smooth movement
	CmdSnapshot     = "g"
)

// Message types from server to client.
const (
	MsgWelcome  = "w"
	MsgEvent    = "e"
	MsgSnapshot = "s"
	MsgAck      = "a"
	MsgError    = "x"
)

// Event kinds carried in an event message.
const (
	KindState     = "state"
	KindScore     = "score"
	KindGold      = "gold"
	KindConsumed  = "consumed"
	KindPlaced    = "placed"
	KindRemoved   = "removed"
	KindMoved     = "moved"
	KindCollision = "collision"
	KindRunEnded  = "ended"
)

// ClientMsg is a control message sent by the client.
type ClientMsg struct {
	Type string `json:"t"`
	Dir  string `json:"d,omitempty"`
	Hard int    `json:"h,omitempty"`
	On   int    `json:"o,omitempty"`
}

// WelcomeMsg is sent once after the upgrade.
type WelcomeMsg struct {
	Type      string  `json:"t"`
	ID        string  `json:"id"`
	Size      int     `json:"n"`
	CellScale float64 `json:"sc"`
}

// EventMsg wraps one engine event. Seq increases by one per event on a connection.
type EventMsg struct {
	Type string `json:"t"`
	Seq  uint64 `json:"q"`
	Kind string `json:"k"`
	Data any    `json:"v"`
}

// SnapshotMsg carries the full engine state.
type SnapshotMsg struct {
	Type string          `json:"t"`
	Snap engine.Snapshot `json:"v"`
}

// AckMsg answers a command. OK is false when the engine ignored it.
type AckMsg struct {
	Type string `json:"t"`
	Cmd  string `json:"c"`
	OK   bool   `json:"k"`
}

// ErrorMsg reports a malformed request or a refused connection.
type ErrorMsg struct {
	Type string `json:"t"`
	Msg  string `json:"m"`
}

type stateData struct {
	From string `json:"f"`
	To   string `json:"s"`
}

type scoreData struct {
	Score  int `json:"p"`
	Apples int `json:"a"`
}

type goldData struct {
	Gold int `json:"g"`
}

type itemData struct {
	Kind  string        `json:"i"`
	Slot  int           `json:"l,omitempty"`
	Cell  [3]int        `json:"c"`
	World core.WorldPos `json:"w"`
	Delta int           `json:"d,omitempty"`
}

type moveData struct {
	Head     [3]int  `json:"h"`
	Dir      string  `json:"d"`
	Vacated  *[3]int `json:"v,omitempty"` // Absent when the snake grew
	Duration int64   `json:"u"`           // Milliseconds
	Smooth   bool    `json:"m,omitempty"`
}

type collisionData struct {
	Head    [3]int `json:"h"`
	Blocked [3]int `json:"b"`
}

type endData struct {
	Score     int  `json:"p"`
	Apples    int  `json:"a"`
	Gold      int  `json:"g"`
	Turns     int  `json:"n"`
	Revives   int  `json:"r"`
	Hard      bool `json:"x,omitempty"`
	CanRevive bool `json:"c,omitempty"`
}

func cell(v core.Vec3) [3]int {
	return [3]int{v.X, v.Y, v.Z}
}

// eventPayload converts an engine event to its kind and wire payload.
func eventPayload(ev engine.Event) (string, any, error) {
	switch ev := ev.(type) {
	case engine.StateChanged:
		return KindState, stateData{From: ev.From.String(), To: ev.To.String()}, nil
	case engine.ScoreChanged:
		return KindScore, scoreData{Score: ev.Score, Apples: ev.Apples}, nil
	case engine.GoldChanged:
		return KindGold, goldData{Gold: ev.Gold}, nil
	case engine.ItemConsumed:
		return KindConsumed, itemData{Kind: ev.Kind.String(), Cell: cell(ev.Cell), World: ev.World, Delta: ev.Delta}, nil
	case engine.ItemPlaced:
		return KindPlaced, itemData{Kind: ev.Kind.String(), Slot: ev.Slot, Cell: cell(ev.Cell), World: ev.World}, nil
	case engine.ItemRemoved:
		return KindRemoved, itemData{Kind: ev.Kind.String(), Slot: ev.Slot, Cell: cell(ev.Cell), World: ev.World}, nil
	case engine.SnakeMoved:
		d := moveData{
			Head:     cell(ev.Head),
			Dir:      ev.Direction.String(),
			Duration: ev.Duration.Milliseconds(),
			Smooth:   ev.Smooth,
		}
		if !ev.Grew {
			v := cell(ev.Vacated)
			d.Vacated = &v
		}
		return KindMoved, d, nil
	case engine.TutorialCollision:
		return KindCollision, collisionData{Head: cell(ev.Head), Blocked: cell(ev.Blocked)}, nil
	case engine.RunEnded:
		return KindRunEnded, endData{
			Score:     ev.Score,
			Apples:    ev.Apples,
			Gold:      ev.Gold,
			Turns:     ev.Turns,
			Revives:   ev.Revives,
			Hard:      ev.HardMode,
			CanRevive: ev.CanRevive,
		}, nil
	}
	return "", nil, fmt.Errorf("feed: unsupported event %T", ev)
}

// encodeEvent marshals an event message.
func encodeEvent(seq uint64, ev engine.Event) ([]byte, error) {
	kind, data, err := eventPayload(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventMsg{Type: MsgEvent, Seq: seq, Kind: kind, Data: data})
}

// decodeClient parses a client message.
func decodeClient(data []byte) (ClientMsg, error) {
	var msg ClientMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("feed: bad message: %w", err)
	}
	if msg.Type == "" {
		return msg, fmt.Errorf("feed: message without type")
	}
	return msg, nil
}

// apply runs one command against the engine. It reports whether the engine
// accepted it; an error means the command itself was malformed.
func apply(e *engine.Engine, msg ClientMsg) (bool, error) {
	switch msg.Type {
	case CmdPlace:
		return e.SetPosition(), nil
	case CmdCancel:
		return e.CancelPosition(), nil
	case CmdStart:
		return e.StartSession(msg.Hard != 0), nil
	case CmdTutorial:
		return e.StartTutorial(), nil
	case CmdQuitTutorial:
		return e.QuitTutorial(), nil
	case CmdDirection:
		d, err := core.ParseDirection(msg.Dir)
		if err != nil {
			return false, err
		}
		return e.SubmitDirection(d), nil
	case CmdPause:
		return e.Pause(), nil
	case CmdResume:
		return e.Resume(), nil
	case CmdRestart:
		return e.Restart(), nil
	case CmdRevive:
		return e.Revive(), nil
	case CmdSmooth:
		e.SetSmoothMovement(msg.On != 0)
		return true, nil
	case CmdSnapshot:
		return true, nil
	}
	return false, fmt.Errorf("feed: unknown command %q", msg.Type)
}
