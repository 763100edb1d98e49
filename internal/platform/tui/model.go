package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
	"github.com/vovakirdan/snake3d/internal/storage"
)

// maxNotes is how many recent event notes the board shows.
const maxNotes = 3

// noteLog keeps short descriptions of recent engine events.
type noteLog struct {
	mu    sync.Mutex
	notes []string
}

func (l *noteLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notes = append(l.notes, s)
	if len(l.notes) > maxNotes {
		l.notes = l.notes[len(l.notes)-maxNotes:]
	}
}

func (l *noteLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.notes...)
}

// describe turns an engine event into a note. Empty means not worth showing.
func describe(ev engine.Event) string {
	switch ev := ev.(type) {
	case engine.ItemConsumed:
		switch ev.Kind {
		case grid.Apple:
			return fmt.Sprintf("apple %+d", ev.Delta)
		case grid.Gold:
			return fmt.Sprintf("gold %+d", ev.Delta)
		case grid.Hazard:
			return fmt.Sprintf("hazard %+d", ev.Delta)
		}
	case engine.ItemPlaced:
		if ev.Kind == grid.Gold {
			return fmt.Sprintf("gold at %s", ev.Cell)
		}
	case engine.TutorialCollision:
		return fmt.Sprintf("blocked at %s", ev.Blocked)
	case engine.RunEnded:
		return fmt.Sprintf("run over: %d", ev.Score)
	}
	return ""
}

// Model is the Bubble Tea model for playing one session.
type Model struct {
	runner      *engine.Runner
	store       *storage.Store
	screen      *core.Screen
	config      core.RuntimeConfig
	keys        *KeyMapper
	help        help.Model
	notes       *noteLog
	unsubscribe func()
	scores      *ScoreboardModel
	hard        bool
	quitting    bool
}

// NewModel creates a new Bubble Tea model driving the runner's engine.
// hard selects hard mode for the next run; H toggles it.
func NewModel(r *engine.Runner, store *storage.Store, cfg core.RuntimeConfig, hard bool) Model {
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}

	notes := &noteLog{}
	var unsubscribe func()
	r.Do(func(e *engine.Engine) {
		unsubscribe = e.Subscribe(func(ev engine.Event) {
			if s := describe(ev); s != "" {
				notes.add(s)
			}
		})
	})

	h := help.New()
	h.Width = cfg.ScreenW

	return Model{
		runner:      r,
		store:       store,
		screen:      core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		config:      cfg,
		keys:        NewKeyMapper(),
		help:        h,
		notes:       notes,
		unsubscribe: unsubscribe,
		hard:        hard,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		m.runner.Step()
		return m, tickCmd(m.config.TickRate)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.scores != nil {
		return m.updateScores(msg)
	}

	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Keys().Hard):
		if st := m.runner.Snapshot().State; st == session.SettingPosition || st == session.WaitingToStart {
			m.hard = !m.hard
		}
		return m, nil

	case key.Matches(msg, m.keys.Keys().Scores):
		if m.store == nil {
			return m, nil
		}
		m.runner.Do(func(e *engine.Engine) {
			if e.State().Running() {
				e.Pause()
			}
		})
		sb := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		sb.embedded = true
		m.scores = &sb
		return m, nil
	}

	action, isQuit := m.keys.MapKey(msg)
	if isQuit {
		m.quit()
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.runner.Do(func(e *engine.Engine) {
			applyAction(e, action, m.hard)
		})
	}
	return m, nil
}

func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		return m, cmd
	}
	switch {
	case sb.IsQuitting():
		m.quit()
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scores = nil
		return m, nil
	}
	m.scores = &sb
	return m, cmd
}

// applyAction maps a semantic action onto the engine controls. Actions that
// make no sense in the current state are ignored by the engine itself.
func applyAction(e *engine.Engine, a core.Action, hard bool) {
	if d, ok := a.Direction(); ok {
		e.SubmitDirection(d)
		return
	}

	switch a {
	case core.ActionConfirm:
		e.SetPosition()
	case core.ActionStart:
		e.StartSession(hard)
	case core.ActionTutorial:
		e.StartTutorial()
	case core.ActionPause:
		if e.State().Running() {
			e.Pause()
		} else {
			e.Resume()
		}
	case core.ActionRestart:
		e.Restart()
	case core.ActionRevive:
		e.Revive()
	case core.ActionBack:
		switch e.State() {
		case session.WaitingToStart:
			e.CancelPosition()
		case session.TutorialRunning, session.GamePaused:
			e.QuitTutorial()
		}
	}
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-1, 1))
	m.help.Width = msg.Width

	if m.scores != nil {
		next, _ := m.scores.Update(msg)
		if sb, ok := next.(ScoreboardModel); ok {
			m.scores = &sb
		}
	}
	return m, nil
}

func (m *Model) quit() {
	m.quitting = true
	m.runner.Do(func(e *engine.Engine) {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		e.Quit()
	})
}

func (m Model) render() {
	snap := m.runner.Snapshot()
	pal := core.DefaultPalette()
	if snap.Colorblind {
		pal = core.ColorblindPalette()
	}
	hard := m.hard
	if snap.State.Running() || snap.State == session.GamePaused || snap.State == session.GameOver {
		hard = snap.HardMode
	}

	m.screen.Clear()
	DrawHUD(m.screen, snap, hard, pal)
	row := min(DrawBoard(m.screen, snap, pal), m.screen.Height()-2)

	msg, color := stateMessage(snap)
	m.screen.DrawTextColored(1, row, msg, color)

	x := 1
	for _, n := range m.notes.list() {
		m.screen.DrawTextColored(x, row+1, n, core.ColorGray)
		x += len([]rune(n)) + 3
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.render()

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".snake3d", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("snake3d_%s.txt", timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	m.render()
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys.Keys())
}

// Run starts the Bubble Tea program for one local session.
func Run(r *engine.Runner, store *storage.Store, cfg core.RuntimeConfig, hard bool) error {
	model := NewModel(r, store, cfg, hard)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
