// snake3d is a 3D snake game played on a cube of stacked layers.
//
// Usage:
//
//	snake3d play             - Play in the terminal
//	snake3d serve            - Start SSH server for remote play
//	snake3d feed             - Start WebSocket feed server
//	snake3d sim              - Run headless autopilot games
//	snake3d scores           - Show run history and profile
//	snake3d settings         - Show or change settings
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 30)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.snake3d/snake3d.db)
//	--config <path>     - Set rules config YAML
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/config"
	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake3d",
	Short: "Snake 3D - steer a snake through a cube",
	Long: `Snake 3D is a snake game on a three-dimensional grid. The board is shown
as a row of layers; the snake moves along x, y and z.

Available commands:
  play      - Play in the terminal
  serve     - Start SSH server for remote play
  feed      - Start WebSocket feed server
  sim       - Run headless autopilot games
  scores    - View run history
  settings  - Show or change settings

Examples:
  snake3d play
  snake3d play --difficulty hard
  snake3d serve --ssh :2222
  snake3d feed --addr :8088
  snake3d sim --runs 5 --turns 500`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snake3d/snake3d.db", "Path to profile database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(settingsCmd)
}

// newLogger creates the stderr logger for a command.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// loadRules loads the rules config from --config or the search path.
func loadRules() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}

// seed returns --seed, or a clock-based seed when it is zero.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// openStoreOrWarn opens the profile database. Games still work without it.
func openStoreOrWarn(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open profile database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// engineOptions returns the options shared by every local engine. A nil
// store is left out so the engine plays without a profile.
func engineOptions(logger *log.Logger, store *storage.Store, seed int64) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithSeed(seed),
	}
	if store != nil {
		opts = append(opts, engine.WithStore(store))
	}
	return opts
}
