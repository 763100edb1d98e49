package config

import (
	"testing"
	"time"
)

func TestTurnDuration(t *testing.T) {
	p := NewPacer(DefaultConfig().Pacing)
	ms := time.Millisecond

	tests := []struct {
		name     string
		in       PaceInput
		expected time.Duration
	}{
		{"start", PaceInput{Score: 0}, 400 * ms},
		{"just below ramp", PaceInput{Score: 9}, 400 * ms},
		{"ramp start", PaceInput{Score: 10}, 390 * ms},
		{"ramp middle", PaceInput{Score: 25}, 340 * ms},
		{"ramp end", PaceInput{Score: 39}, 300 * ms},
		{"floor", PaceInput{Score: 40}, 300 * ms},
		{"far past floor", PaceInput{Score: 500}, 300 * ms},
		{"hard", PaceInput{HardMode: true, Score: 3}, 250 * ms},
		{"reviving beats hard", PaceInput{Reviving: true, HardMode: true}, time.Second},
		{"tutorial beats all", PaceInput{Tutorial: true, Reviving: true, HardMode: true, Score: 50}, 500 * ms},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.TurnDuration(tc.in); got != tc.expected {
				t.Errorf("TurnDuration(%+v) = %v, expected %v", tc.in, got, tc.expected)
			}
		})
	}
}

func TestTurnDurationMonotonic(t *testing.T) {
	p := NewPacer(DefaultConfig().Pacing)
	prev := p.TurnDuration(PaceInput{})
	for score := 1; score < 100; score++ {
		d := p.TurnDuration(PaceInput{Score: score})
		if d > prev {
			t.Fatalf("duration rose from %v to %v at score %d", prev, d, score)
		}
		prev = d
	}
}
