// Package engine implements the turn engine: the explicit state machine that
// moves the snake, resolves items, paces turns and runs the gold and hazard
// timers. Time only moves through Advance, so tests can step it exactly.
package engine

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
	"github.com/vovakirdan/snake3d/internal/snake"
	"github.com/vovakirdan/snake3d/internal/spawn"
)

// minTurn keeps a misconfigured pacing from spinning Advance forever.
const minTurn = time.Millisecond

// loopPhase is where the turn loop currently is.
type loopPhase int

const (
	loopIdle    loopPhase = iota // Not running
	loopWaiting                  // Body moved, waiting for the turn to finish
	loopHalted                   // Tutorial collision, waiting for a new direction
)

// cycleTimer drives one gold or hazard slot: wait delay, place, wait the
// same delay, remove, draw a new delay.
type cycleTimer struct {
	delay  time.Duration
	left   time.Duration
	placed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStore sets the profile store.
func WithStore(s ProfileStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithSeed seeds the engine's random source. Same seed, same inputs and same
// Advance steps give the same game.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

type subscription struct {
	id int
	fn func(Event)
}

// Engine is one game session. It is not safe for concurrent use; wrap it in a
// Runner when more than one goroutine needs it.
type Engine struct {
	cfg    config.Config
	pacer  *config.Pacer
	rng    *rand.Rand
	logger *log.Logger
	store  ProfileStore

	grid  *grid.Grid
	chain *snake.Chain
	items *spawn.Policy
	fsm   *session.Machine

	// Settings
	hardMode   bool
	smooth     bool
	colorblind bool

	// Counters
	score             int
	apples            int
	gold              int
	turns             int
	revivesUsed       int
	scoreBeforeRevive int

	tutorial bool
	reviving bool

	// Turn loop
	loop       loopPhase
	turnLeft   time.Duration
	turnLength time.Duration

	// Spawn timers
	timersOn     bool
	goldTimer    cycleTimer
	hazardTimers []cycleTimer

	quit bool

	listeners []subscription
	nextSubID int
}

// New creates an engine in SettingPosition with a board already set up.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		pacer:  config.NewPacer(cfg.Pacing),
		logger: log.New(io.Discard),
		smooth: true,
		grid:   grid.New(cfg.Grid.Size),
		fsm:    session.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.items = spawn.NewPolicy(e.grid, e.rng, 0)

	e.fsm.Subscribe(func(from, to session.State) {
		e.logger.Debug("session transition", "from", from, "to", to)
		e.emit(StateChanged{From: from, To: to})
	})

	e.applyProfile()
	e.setup(e.hardMode)
	return e
}

// Subscribe registers fn for every event and returns a function removing it.
// Listeners run synchronously and must not call back into the engine.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.nextSubID++
	id := e.nextSubID
	e.listeners = append(e.listeners, subscription{id: id, fn: fn})
	return func() {
		for i, s := range e.listeners {
			if s.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) emit(ev Event) {
	for _, s := range e.listeners {
		s.fn(ev)
	}
}

// State returns the session state.
func (e *Engine) State() session.State {
	return e.fsm.State()
}

// Config returns the rules the engine runs with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// applyProfile reads settings and the gold balance from the store.
func (e *Engine) applyProfile() {
	if e.store == nil {
		return
	}
	p, err := e.store.LoadProfile()
	if err != nil {
		e.logger.Warn("cannot load profile", "err", err)
		return
	}
	e.gold = p.Gold
	e.hardMode = p.HardMode
	e.smooth = p.SmoothMovement
	e.colorblind = p.Colorblind
}

// reloadGold refreshes the gold balance from the store.
func (e *Engine) reloadGold() {
	if e.store == nil {
		return
	}
	p, err := e.store.LoadProfile()
	if err != nil {
		e.logger.Warn("cannot reload gold", "err", err)
		return
	}
	if p.Gold != e.gold {
		e.gold = p.Gold
		e.emit(GoldChanged{Gold: e.gold})
	}
}

// setup clears the board and lays out a fresh snake and apple.
func (e *Engine) setup(hard bool) {
	e.stopLoop()
	e.stopTimers()

	e.hardMode = hard
	e.grid.Reset()
	e.items.Reset(e.cfg.HazardSlots(hard))
	e.chain = snake.New(e.cfg.Snake.Tail, e.cfg.Snake.Direction, e.cfg.Snake.Length)
	for _, s := range e.chain.Segments() {
		e.grid.SetCell(s.Pos, grid.Snake)
	}

	e.score = 0
	e.apples = 0
	e.turns = 0
	e.revivesUsed = 0
	e.scoreBeforeRevive = 0
	e.reviving = false

	e.placeApple()
	e.emit(ScoreChanged{Score: e.score, Apples: e.apples})
	e.emit(GoldChanged{Gold: e.gold})
}

func (e *Engine) world(p core.Vec3) core.WorldPos {
	return p.World(e.cfg.Grid.CellScale)
}

// SetPosition confirms the board placement and sets up a fresh board.
func (e *Engine) SetPosition() bool {
	if !e.fire(session.PositionSet) {
		return false
	}
	e.applyProfile()
	e.setup(e.hardMode)
	return true
}

// CancelPosition goes back to board placement.
func (e *Engine) CancelPosition() bool {
	return e.fire(session.PositionCancel)
}

// StartSession starts a scored run. The board is rebuilt if the mode differs
// from the one it was set up for, since the hazard count depends on it.
func (e *Engine) StartSession(hardMode bool) bool {
	if e.quit || !e.fsm.Can(session.GameStart) {
		e.logger.Debug("start ignored", "state", e.fsm.State())
		return false
	}
	if hardMode != e.hardMode {
		e.setup(hardMode)
	}
	e.tutorial = false
	e.fire(session.GameStart)
	e.logger.Info("run started", "hard", e.hardMode)
	e.startTimers()
	e.startLoop()
	return true
}

// StartTutorial runs the snake without spawn timers. Collisions halt the
// loop instead of ending the run.
func (e *Engine) StartTutorial() bool {
	if e.quit || !e.fsm.Can(session.TutorialStart) {
		e.logger.Debug("tutorial ignored", "state", e.fsm.State())
		return false
	}
	e.tutorial = true
	e.fire(session.TutorialStart)
	e.startLoop()
	return true
}

// QuitTutorial leaves the tutorial and sets up a fresh board.
func (e *Engine) QuitTutorial() bool {
	if e.quit || !e.tutorial || !e.fsm.Can(session.TutorialQuit) {
		return false
	}
	e.stopLoop()
	e.tutorial = false
	e.fire(session.TutorialQuit)
	e.setup(e.hardMode)
	return true
}

// Pause freezes the turn loop and every timer.
func (e *Engine) Pause() bool {
	return e.fire(session.Pause)
}

// Resume continues whatever was paused.
func (e *Engine) Resume() bool {
	return e.fire(session.Resume)
}

// Restart abandons the run and returns to WaitingToStart with a fresh board.
func (e *Engine) Restart() bool {
	if e.quit || !e.fsm.Can(session.Restart) {
		return false
	}
	e.stopLoop()
	e.stopTimers()
	e.tutorial = false
	e.fire(session.Restart)
	e.applyProfile()
	e.setup(e.hardMode)
	return true
}

// Quit tears the session down. Every later call is a no-op.
func (e *Engine) Quit() {
	if e.quit {
		return
	}
	e.stopLoop()
	e.stopTimers()
	e.quit = true
	e.logger.Debug("engine quit")
}

// SubmitDirection queues d for the next turn. Reversals are dropped when the
// turn applies the queue. In a halted tutorial it restarts the loop.
func (e *Engine) SubmitDirection(d core.Direction) bool {
	if e.quit || !d.Valid() || !e.fsm.State().Running() {
		e.logger.Debug("direction ignored", "dir", d, "state", e.fsm.State())
		return false
	}
	e.chain.SetNextDirection(d)
	if e.loop == loopHalted {
		e.loop = loopIdle
		e.beginTurn()
	}
	return true
}

// SetSmoothMovement toggles the smooth-movement hint carried by SnakeMoved.
func (e *Engine) SetSmoothMovement(on bool) {
	e.smooth = on
}

func (e *Engine) fire(t session.Trigger) bool {
	if e.quit {
		return false
	}
	if err := e.fsm.Fire(t); err != nil {
		e.logger.Debug("trigger ignored", "err", err)
		return false
	}
	return true
}

// Advance moves engine time forward by dt. Time is consumed in slices ending
// at the nearest deadline; deadlines falling on the same instant fire turn
// first, then gold, then hazards by id. Nothing moves while paused.
func (e *Engine) Advance(dt time.Duration) {
	for dt > 0 && !e.quit && e.fsm.State().Running() {
		step := dt
		if e.loop == loopWaiting && e.turnLeft < step {
			step = e.turnLeft
		}
		if e.timersOn {
			if e.goldTimer.left < step {
				step = e.goldTimer.left
			}
			for i := range e.hazardTimers {
				if e.hazardTimers[i].left < step {
					step = e.hazardTimers[i].left
				}
			}
		}
		if step < 0 {
			step = 0
		}

		if e.loop == loopWaiting {
			e.turnLeft -= step
		}
		if e.timersOn {
			e.goldTimer.left -= step
			for i := range e.hazardTimers {
				e.hazardTimers[i].left -= step
			}
		}
		dt -= step

		e.fireDeadlines()
	}
}

func (e *Engine) fireDeadlines() {
	if e.loop == loopWaiting && e.turnLeft <= 0 {
		e.completeTurn()
	}
	if !e.timersOn {
		return
	}
	if e.goldTimer.left <= 0 {
		e.cycleGold()
	}
	for id := range e.hazardTimers {
		if !e.timersOn {
			return
		}
		if e.hazardTimers[id].left <= 0 {
			e.cycleHazard(id)
		}
	}
}
