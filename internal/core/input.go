package core

// Action represents a semantic game action, abstracted from physical key presses.
// Front ends translate keys (or wire commands) into actions so the engine
// never sees raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionPosX            // D, Right arrow
	ActionNegX            // A, Left arrow
	ActionPosY            // E, PgUp - rise one layer
	ActionNegY            // C, PgDown - sink one layer
	ActionPosZ            // S, Down arrow - one row down the layer panel
	ActionNegZ            // W, Up arrow - one row up the layer panel
	ActionStart           // Space - start a run from WaitingToStart
	ActionTutorial        // T - start the tutorial
	ActionConfirm         // Enter - confirm board placement
	ActionBack            // B - cancel placement, quit tutorial
	ActionPause           // P, Esc - pause/resume
	ActionRestart         // R - back to WaitingToStart after game over
	ActionRevive          // V - spend a revive after game over
	ActionQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPosX:
		return "+X"
	case ActionNegX:
		return "-X"
	case ActionPosY:
		return "+Y"
	case ActionNegY:
		return "-Y"
	case ActionPosZ:
		return "+Z"
	case ActionNegZ:
		return "-Z"
	case ActionStart:
		return "Start"
	case ActionTutorial:
		return "Tutorial"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionRevive:
		return "Revive"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction maps a steering action to its grid direction.
// The second return is false for non-steering actions.
func (a Action) Direction() (Direction, bool) {
	switch a {
	case ActionPosX:
		return DirPosX, true
	case ActionNegX:
		return DirNegX, true
	case ActionPosY:
		return DirPosY, true
	case ActionNegY:
		return DirNegY, true
	case ActionPosZ:
		return DirPosZ, true
	case ActionNegZ:
		return DirNegZ, true
	default:
		return 0, false
	}
}

// InputFrame represents the input collected during one frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
	// Order keeps steering actions in arrival order; only the last one wins.
	Order []Action
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
	f.Order = append(f.Order, a)
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// LastDirection returns the most recent steering action in the frame.
func (f InputFrame) LastDirection() (Direction, bool) {
	for i := len(f.Order) - 1; i >= 0; i-- {
		if d, ok := f.Order[i].Direction(); ok {
			return d, true
		}
	}
	return 0, false
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Order = f.Order[:0]
}
