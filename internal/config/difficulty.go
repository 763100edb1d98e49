package config

import "time"

// PaceInput is everything the turn duration depends on.
type PaceInput struct {
	Tutorial bool
	Reviving bool
	HardMode bool
	Score    int
}

// Pacer calculates turn durations from the pacing config.
type Pacer struct {
	cfg PacingConfig
}

// NewPacer creates a new pacer.
func NewPacer(cfg PacingConfig) *Pacer {
	return &Pacer{cfg: cfg}
}

// TurnDuration returns how long the next turn waits. Tutorial beats reviving,
// reviving beats hard mode, and otherwise the duration ramps down with score.
func (p *Pacer) TurnDuration(in PaceInput) time.Duration {
	c := p.cfg
	switch {
	case in.Tutorial:
		return c.Base + c.TutorialBonus
	case in.Reviving:
		return c.Revive
	case in.HardMode:
		return c.Hard
	case in.Score < c.RampStartScore:
		return c.Base
	case in.Score < c.RampEndScore:
		divisor := c.RampDivisor
		if divisor <= 0 {
			divisor = 1 // Prevent division by zero
		}
		steps := (in.Score - c.RampOffset) / divisor
		return c.Base - time.Duration(steps)*c.RampStep
	default:
		return c.Floor
	}
}
