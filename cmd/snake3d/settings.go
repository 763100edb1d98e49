package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snake3d/internal/storage"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Long: `Show the stored settings, or change them with flags.

Examples:
  snake3d settings
  snake3d settings --hard-mode=true
  snake3d settings --smooth=false --colorblind=true
  snake3d settings --gold 50`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

// settingFlags maps flag names to storage toggle keys.
var settingFlags = []struct {
	flag  string
	key   string
	usage string
}{
	{"hard-mode", storage.KeyHardMode, "Hard mode"},
	{"smooth", storage.KeySmooth, "Smooth movement"},
	{"colorblind", storage.KeyColorblind, "Colorblind palette"},
	{"sounds", storage.KeySounds, "Sound effects"},
	{"music", storage.KeyMusic, "Music"},
}

func init() {
	for _, f := range settingFlags {
		settingsCmd.Flags().Bool(f.flag, false, f.usage)
	}
	settingsCmd.Flags().Int("gold", 0, "Overwrite the gold balance")
}

func runSettings(cmd *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening profile database: %w", err)
	}
	defer store.Close()

	for _, f := range settingFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		on, flagErr := cmd.Flags().GetBool(f.flag)
		if flagErr != nil {
			return flagErr
		}
		if err := store.SetToggle(f.key, on); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("gold") {
		gold, flagErr := cmd.Flags().GetInt("gold")
		if flagErr != nil {
			return flagErr
		}
		if err := store.SetGold(gold); err != nil {
			return err
		}
	}

	fmt.Println("Settings")
	fmt.Println()
	for _, f := range settingFlags {
		on, err := store.Toggle(f.key)
		if err != nil {
			return err
		}
		fmt.Printf("  %-12s  %s\n", f.flag, strconv.FormatBool(on))
	}
	profile, err := store.Profile()
	if err != nil {
		return err
	}
	fmt.Printf("  %-12s  %d\n", "gold", profile.Gold)
	return nil
}
