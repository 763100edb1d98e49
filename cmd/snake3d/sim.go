package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/autopilot"
	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/storage"
)

var (
	flagSimRuns   int
	flagSimTurns  int
	flagSimHard   bool
	flagSimRevive bool
	flagSimRecord bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run headless autopilot games",
	Long: `Play games without a terminal, steered by the autopilot.

Engine time is stepped turn by turn, so runs finish as fast as the
machine allows. Finished runs are recorded in the profile database
unless --record=false is given.

Examples:
  snake3d sim
  snake3d sim --runs 10 --turns 1000
  snake3d sim --hard --revive --seed 42
  snake3d sim --record=false`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Number of runs")
	simCmd.Flags().IntVar(&flagSimTurns, "turns", 2000, "Stop a run after this many turns (0 = until death)")
	simCmd.Flags().BoolVar(&flagSimHard, "hard", false, "Play in hard mode")
	simCmd.Flags().BoolVar(&flagSimRevive, "revive", false, "Spend revives while they last")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", true, "Record finished runs in the profile database")
}

func runSim(_ *cobra.Command, _ []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}
	logger, err := newLogger("snake3d-sim")
	if err != nil {
		return err
	}

	var store *storage.Store
	if flagSimRecord {
		store = openStoreOrWarn(logger)
		if store != nil {
			defer store.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := autopilot.Options{
		HardMode: flagSimHard,
		MaxTurns: flagSimTurns,
		Revive:   flagSimRevive,
	}
	base := seed()

	fmt.Printf("  %-4s  %-6s  %-6s  %-4s  %-6s  %-3s  %-8s  %s\n", "Run", "Score", "Apples", "Gold", "Turns", "Rev", "Time", "End")
	fmt.Printf("  %-4s  %-6s  %-6s  %-4s  %-6s  %-3s  %-8s  %s\n", "---", "-----", "------", "----", "-----", "---", "----", "---")

	best, total := 0, 0
	for i := range flagSimRuns {
		e := engine.New(rules, engineOptions(logger, store, base+int64(i))...)
		res, playErr := autopilot.Play(ctx, e, opts)
		if playErr != nil {
			return fmt.Errorf("run %d: %w", i+1, playErr)
		}
		e.Quit()

		end := "capped"
		if res.Died {
			end = "died"
		}
		fmt.Printf("  %-4d  %-6d  %-6d  %-4d  %-6d  %-3d  %-8s  %s\n",
			i+1, res.Score, res.Apples, res.Gold, res.Turns, res.Revives, res.Elapsed.Round(time.Millisecond), end)

		best = max(best, res.Score)
		total += res.Score
	}

	if flagSimRuns > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Average: %.1f\n", best, float64(total)/float64(flagSimRuns))
	}
	return nil
}
