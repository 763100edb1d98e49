// Package session implements the game session state machine that gates which
// engine operations are legal and broadcasts transitions to listeners.
package session

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned when a trigger is not valid in the current state.
var ErrIllegalTransition = errors.New("session: illegal transition")

// State is a session state.
type State int

const (
	SettingPosition State = iota
	WaitingToStart
	TutorialRunning
	GameRunning
	GamePaused
	GameOver
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case SettingPosition:
		return "SettingPosition"
	case WaitingToStart:
		return "WaitingToStart"
	case TutorialRunning:
		return "TutorialRunning"
	case GameRunning:
		return "GameRunning"
	case GamePaused:
		return "GamePaused"
	case GameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Running reports whether the turn loop may run in this state.
func (s State) Running() bool {
	return s == TutorialRunning || s == GameRunning
}

// Trigger is an external or engine action that may change the state.
type Trigger int

const (
	PositionSet Trigger = iota
	PositionCancel
	TutorialStart
	TutorialQuit
	GameStart
	Pause
	Resume
	End
	Restart
	Revive
)

// String returns a human-readable name for the trigger.
func (t Trigger) String() string {
	switch t {
	case PositionSet:
		return "PositionSet"
	case PositionCancel:
		return "PositionCancel"
	case TutorialStart:
		return "TutorialStart"
	case TutorialQuit:
		return "TutorialQuit"
	case GameStart:
		return "GameStart"
	case Pause:
		return "Pause"
	case Resume:
		return "Resume"
	case End:
		return "End"
	case Restart:
		return "Restart"
	case Revive:
		return "Revive"
	default:
		return "Unknown"
	}
}

// transitions maps trigger -> source state -> target state.
// Resume is resolved against the previous state at fire time.
var transitions = map[Trigger]map[State]State{
	PositionSet:    {SettingPosition: WaitingToStart},
	PositionCancel: {WaitingToStart: SettingPosition},
	TutorialStart:  {WaitingToStart: TutorialRunning},
	TutorialQuit:   {TutorialRunning: WaitingToStart, GamePaused: WaitingToStart},
	GameStart:      {WaitingToStart: GameRunning},
	Pause:          {GameRunning: GamePaused, TutorialRunning: GamePaused},
	Resume:         {GamePaused: GameRunning},
	End:            {GameRunning: GameOver, GamePaused: GameOver},
	Restart:        {GameOver: WaitingToStart, GamePaused: WaitingToStart},
	Revive:         {GameOver: GameRunning},
}

// Listener receives every transition after the state has changed.
type Listener func(from, to State)

type subscription struct {
	id int
	fn Listener
}

// Machine is the session FSM. It is not safe for concurrent use; the engine
// serializes access.
type Machine struct {
	current   State
	previous  State
	listeners []subscription
	nextID    int
}

// New creates a machine in SettingPosition.
func New() *Machine {
	return &Machine{current: SettingPosition, previous: SettingPosition}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.current
}

// Previous returns the state before the last transition.
func (m *Machine) Previous() State {
	return m.previous
}

// Can reports whether trigger t is legal now.
func (m *Machine) Can(t Trigger) bool {
	_, ok := m.target(t)
	return ok
}

func (m *Machine) target(t Trigger) (State, bool) {
	if t == Resume {
		if m.current != GamePaused || !m.previous.Running() {
			return 0, false
		}
		return m.previous, true
	}
	if t == TutorialQuit && m.current == GamePaused && m.previous != TutorialRunning {
		return 0, false
	}
	next, ok := transitions[t][m.current]
	return next, ok
}

// Fire applies trigger t. The state is updated before listeners run, so a
// listener observing State() sees the new state.
func (m *Machine) Fire(t Trigger) error {
	next, ok := m.target(t)
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, t, m.current)
	}
	from := m.current
	m.previous = from
	m.current = next

	// Copy so listeners may unsubscribe while being notified
	subs := append([]subscription(nil), m.listeners...)
	for _, s := range subs {
		s.fn(from, next)
	}
	return nil
}

// Subscribe registers a listener and returns a function that removes it.
func (m *Machine) Subscribe(fn Listener) func() {
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range m.listeners {
			if s.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}
