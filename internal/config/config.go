// Package config provides YAML-based rules configuration loading, validation
// and turn pacing for the snake3d engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/snake3d/internal/core"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config contains the full rule set for one engine.
type Config struct {
	Grid   GridConfig   `yaml:"grid"`
	Snake  SnakeConfig  `yaml:"snake"`
	Pacing PacingConfig `yaml:"pacing"`
	Growth GrowthConfig `yaml:"growth"`
	Items  ItemsConfig  `yaml:"items"`
	Revive ReviveConfig `yaml:"revive"`
}

// GridConfig defines the board.
type GridConfig struct {
	Size      int     `yaml:"size"`
	CellScale float64 `yaml:"cell_scale"` // World units per cell
}

// SnakeConfig defines the starting line.
type SnakeConfig struct {
	Tail      core.Vec3      `yaml:"tail"`
	Length    int            `yaml:"length"`
	Direction core.Direction `yaml:"direction"`
}

// PacingConfig defines turn durations.
type PacingConfig struct {
	Base           time.Duration `yaml:"base"`
	TutorialBonus  time.Duration `yaml:"tutorial_bonus"`
	Revive         time.Duration `yaml:"revive"`
	Hard           time.Duration `yaml:"hard"`
	RampStartScore int           `yaml:"ramp_start_score"` // Ramp applies for RampStartScore <= score < RampEndScore
	RampEndScore   int           `yaml:"ramp_end_score"`
	RampOffset     int           `yaml:"ramp_offset"`
	RampDivisor    int           `yaml:"ramp_divisor"`
	RampStep       time.Duration `yaml:"ramp_step"`
	Floor          time.Duration `yaml:"floor"`
}

// GrowthConfig defines when eating an apple lengthens the snake.
type GrowthConfig struct {
	AlwaysUntil int `yaml:"always_until"` // Always grow while length <= AlwaysUntil
	RandomCap   int `yaml:"random_cap"`   // Otherwise grow iff a draw in [1,RandomCap] exceeds length
}

// ItemsConfig defines item counts, timer intervals and score deltas.
type ItemsConfig struct {
	Hazards           int           `yaml:"hazards"`
	HardHazards       int           `yaml:"hard_hazards"`
	GoldIntervalMin   time.Duration `yaml:"gold_interval_min"`
	GoldIntervalMax   time.Duration `yaml:"gold_interval_max"`
	HazardIntervalMin time.Duration `yaml:"hazard_interval_min"`
	HazardIntervalMax time.Duration `yaml:"hazard_interval_max"`
	AppleScore        int           `yaml:"apple_score"`
	GoldScore         int           `yaml:"gold_score"`
	GoldAmount        int           `yaml:"gold_amount"`
	HazardPenalty     int           `yaml:"hazard_penalty"`
}

// ReviveConfig defines revival limits.
type ReviveConfig struct {
	MaxPerRun int `yaml:"max_per_run"`
}

// HazardSlots returns the hazard count for the given mode.
func (c Config) HazardSlots(hard bool) int {
	if hard {
		return c.Items.HardHazards
	}
	return c.Items.Hazards
}

// MaxSnakeLength is the longest the growth policy can make the snake.
func (c Config) MaxSnakeLength() int {
	return max(c.Snake.Length, c.Growth.AlwaysUntil+1, c.Growth.RandomCap)
}

// Validate checks the config for consistency.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Grid.Size < 2 {
		add("grid.size must be at least 2, got %d", c.Grid.Size)
	}
	if c.Grid.CellScale <= 0 {
		add("grid.cell_scale must be positive")
	}

	if c.Snake.Length < 1 {
		add("snake.length must be at least 1, got %d", c.Snake.Length)
	}
	if !c.Snake.Direction.Valid() {
		add("snake.direction is invalid")
	}
	if c.Grid.Size >= 2 && c.Snake.Length >= 1 && c.Snake.Direction.Valid() {
		end := c.Snake.Tail
		for range c.Snake.Length - 1 {
			end = end.Step(c.Snake.Direction)
		}
		if !inCube(c.Snake.Tail, c.Grid.Size) || !inCube(end, c.Grid.Size) {
			add("snake start line %v..%v leaves the grid", c.Snake.Tail, end)
		}
	}

	p := c.Pacing
	if p.Base <= 0 || p.Revive <= 0 || p.Hard <= 0 || p.Floor <= 0 {
		add("pacing durations must be positive")
	}
	if p.RampDivisor <= 0 {
		add("pacing.ramp_divisor must be positive")
	}
	if p.RampEndScore < p.RampStartScore {
		add("pacing.ramp_end_score must not be below ramp_start_score")
	}

	if c.Growth.AlwaysUntil < 0 || c.Growth.RandomCap < 1 {
		add("growth.always_until must be >= 0 and growth.random_cap >= 1")
	}

	it := c.Items
	if it.Hazards < 0 || it.HardHazards < 0 {
		add("hazard counts must not be negative")
	}
	if it.GoldIntervalMin <= 0 || it.GoldIntervalMax < it.GoldIntervalMin {
		add("gold interval must satisfy 0 < min <= max")
	}
	if it.HazardIntervalMin <= 0 || it.HazardIntervalMax < it.HazardIntervalMin {
		add("hazard interval must satisfy 0 < min <= max")
	}

	if c.Revive.MaxPerRun < 0 {
		add("revive.max_per_run must not be negative")
	}

	// The longest snake plus every item must leave a free cell so placement
	// always succeeds.
	if c.Grid.Size >= 2 {
		cells := c.Grid.Size * c.Grid.Size * c.Grid.Size
		need := c.MaxSnakeLength() + max(it.Hazards, it.HardHazards) + 2
		if cells <= need {
			add("grid of %d cells cannot hold a snake of %d plus items", cells, c.MaxSnakeLength())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func inCube(p core.Vec3, n int) bool {
	return p.X >= 0 && p.X < n && p.Y >= 0 && p.Y < n && p.Z >= 0 && p.Z < n
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
	}
}

// HardModeForPreset resolves hard mode: easy forces it off, hard forces it
// on and normal keeps the stored setting.
func HardModeForPreset(preset DifficultyPreset, stored bool) bool {
	switch preset {
	case DifficultyEasy:
		return false
	case DifficultyHard:
		return true
	default:
		return stored
	}
}
