package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/platform/tui"
)

var (
	flagHard       bool
	flagDifficulty string
	flagLogFile    string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a game in the terminal.

Each layer of the cube is drawn as its own panel, x across and z down.
The layer holding the head is framed.

Controls:
  Enter       - Place the board
  Space       - Start a run
  T           - Start the tutorial
  H           - Toggle hard mode (before starting)
  Arrows/WASD - Steer within the layer
  E/C         - Move up/down a layer
  P/Esc       - Pause
  R           - Restart
  V           - Revive (after game over)
  Tab         - Run history
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Hard mode off
  normal - Use the stored hard mode setting
  hard   - Hard mode on

Examples:
  snake3d play
  snake3d play --hard
  snake3d play --difficulty easy
  snake3d play --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagHard, "hard", false, "Start in hard mode")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write engine logs to this file")
}

func runPlay(_ *cobra.Command, _ []string) error {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	rules, err := loadRules()
	if err != nil {
		return err
	}
	setupLog, err := newLogger("snake3d")
	if err != nil {
		return err
	}

	// The terminal belongs to the game, so engine logs go to a file or nowhere
	var out io.Writer = io.Discard
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if openErr != nil {
			return fmt.Errorf("cannot open log file: %w", openErr)
		}
		defer f.Close()
		out = f
	}
	engineLog := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake3d",
		Level:           setupLog.GetLevel(),
	})

	store := openStoreOrWarn(setupLog)
	if store != nil {
		defer store.Close()
	}

	stored := false
	if store != nil {
		if p, profErr := store.Profile(); profErr == nil {
			stored = p.HardMode
		}
	}
	hard := flagHard || config.HardModeForPreset(preset, stored)

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed(),
	}

	e := engine.New(rules, engineOptions(engineLog, store, cfg.Seed)...)
	runner := engine.NewRunner(e, nil)
	if err := tui.Run(runner, store, cfg, hard); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

// terminalSize returns the terminal size, or 80x24 when stdout is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
