package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake3d/internal/core"
)

// GameKeyMap defines the key bindings for the board screen.
type GameKeyMap struct {
	Steer    key.Binding // Help only
	PosX     key.Binding
	NegX     key.Binding
	PosY     key.Binding
	NegY     key.Binding
	PosZ     key.Binding
	NegZ     key.Binding
	Place    key.Binding
	Start    key.Binding
	Tutorial key.Binding
	Hard     key.Binding
	Pause    key.Binding
	Restart  key.Binding
	Revive   key.Binding
	Scores   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Steer, k.PosY, k.NegY, k.Pause, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PosX, k.NegX, k.PosZ, k.NegZ, k.PosY, k.NegY},
		{k.Place, k.Start, k.Tutorial, k.Hard},
		{k.Pause, k.Restart, k.Revive, k.Scores, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings. Each layer panel shows x
// across and z down, so the arrows move within a layer and e/c change layer.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Steer: key.NewBinding(
			key.WithKeys("left", "right", "up", "down"),
			key.WithHelp("←↑↓→/wasd", "steer"),
		),
		PosX: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "+x"),
		),
		NegX: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "-x"),
		),
		PosZ: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "+z"),
		),
		NegZ: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "-z"),
		),
		PosY: key.NewBinding(
			key.WithKeys("e", "pgup"),
			key.WithHelp("e", "layer up"),
		),
		NegY: key.NewBinding(
			key.WithKeys("c", "pgdown"),
			key.WithHelp("c", "layer down"),
		),
		Place: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "place board"),
		),
		Start: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start"),
		),
		Tutorial: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tutorial"),
		),
		Hard: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hard mode"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", "esc"),
			key.WithHelp("p/esc", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Revive: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "revive"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "runs"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys GameKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultGameKeyMap()}
}

// Keys returns the bindings, for help rendering.
func (km *KeyMapper) Keys() GameKeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	k := km.keys
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, k.PosX):
		return core.ActionPosX, false
	case key.Matches(msg, k.NegX):
		return core.ActionNegX, false
	case key.Matches(msg, k.PosY):
		return core.ActionPosY, false
	case key.Matches(msg, k.NegY):
		return core.ActionNegY, false
	case key.Matches(msg, k.PosZ):
		return core.ActionPosZ, false
	case key.Matches(msg, k.NegZ):
		return core.ActionNegZ, false
	case key.Matches(msg, k.Place):
		return core.ActionConfirm, false
	case key.Matches(msg, k.Start):
		return core.ActionStart, false
	case key.Matches(msg, k.Tutorial):
		return core.ActionTutorial, false
	case key.Matches(msg, k.Pause):
		return core.ActionPause, false
	case key.Matches(msg, k.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, k.Revive):
		return core.ActionRevive, false
	case key.Matches(msg, k.Back):
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}
