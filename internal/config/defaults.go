package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
)

//go:embed defaults/snake3d.yaml
var defaultYAML []byte

// DefaultConfig returns the hard-coded rule set.
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{
			Size:      10,
			CellScale: 0.1,
		},
		Snake: SnakeConfig{
			Tail:      core.V(2, 2, 2),
			Length:    3,
			Direction: core.DirPosX,
		},
		Pacing: PacingConfig{
			Base:           400 * time.Millisecond,
			TutorialBonus:  100 * time.Millisecond,
			Revive:         time.Second,
			Hard:           250 * time.Millisecond,
			RampStartScore: 10,
			RampEndScore:   40,
			RampOffset:     7,
			RampDivisor:    3,
			RampStep:       10 * time.Millisecond,
			Floor:          300 * time.Millisecond,
		},
		Growth: GrowthConfig{
			AlwaysUntil: 12,
			RandomCap:   40,
		},
		Items: ItemsConfig{
			Hazards:           5,
			HardHazards:       10,
			GoldIntervalMin:   10 * time.Second,
			GoldIntervalMax:   20 * time.Second,
			HazardIntervalMin: 10 * time.Second,
			HazardIntervalMax: 30 * time.Second,
			AppleScore:        1,
			GoldScore:         3,
			GoldAmount:        1,
			HazardPenalty:     2,
		},
		Revive: ReviveConfig{
			MaxPerRun: 3,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
