package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/platform/tui"
	"github.com/vovakirdan/snake3d/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresRecent bool
	flagScoresTUI    bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show run history and profile",
	Long: `Display the best runs and the profile totals.

Examples:
  snake3d scores
  snake3d scores --recent --limit 20
  snake3d scores --tui
  snake3d scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the most recent runs instead of the best")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse runs interactively")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the run history (profile totals are kept)")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening profile database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(); err != nil {
			return err
		}
		fmt.Println("Run history cleared.")
		return nil
	}

	if flagScoresTUI {
		width, height := terminalSize()
		return tui.RunScoreboard(store, width, height)
	}

	title := "Best Runs"
	var runs []storage.RunEntry
	if flagScoresRecent {
		title = "Recent Runs"
		runs, err = store.RecentRuns(flagScoresLimit)
	} else {
		runs, err = store.TopRuns(flagScoresLimit)
	}
	if err != nil {
		return fmt.Errorf("error retrieving runs: %w", err)
	}

	fmt.Printf("%s\n\n", title)
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake3d play' to set the first score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-6s  %-6s  %-3s  %-6s  %s\n", "Rank", "Score", "Apples", "Turns", "Rev", "Mode", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-6s  %-3s  %-6s  %s\n", "----", "-----", "------", "-----", "---", "----", "----")

	for i, r := range runs {
		mode := "normal"
		if r.HardMode {
			mode = "hard"
		}
		fmt.Printf("  %-4d  %-6d  %-6d  %-6d  %-3d  %-6s  %s\n",
			i+1, r.Score, r.Apples, r.Turns, r.Revives, mode, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	profile, err := store.Profile()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Average: %.1f  Games: %d  Gold: %d\n",
		profile.Highscore, profile.AverageScore, profile.GamesPlayed, profile.Gold)

	stats, err := store.GetStats()
	if err != nil {
		return err
	}
	fmt.Printf("History: %d runs, %d points, last played %s\n",
		stats.Runs, stats.TotalScore, stats.LastPlayed.Format("2006-01-02 15:04"))
	return nil
}
