package ai

import (
	"math"

	"github.com/velesar/fateweaver/internal/rng"
)

// Mode is the enemy disposition mode driving action selection.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeWeakened    Mode = "weakened"
	ModeSurvival    Mode = "survival"
	ModeDesperation Mode = "desperation"
)

// weakenedSwing is the disposition delta between consecutive evaluations
// that forces the weakened mode regardless of thresholds.
const weakenedSwing = 30.0

// ModeState tracks one enemy's AI mode across evaluations. Thresholds are
// derived once per encounter seed via rng.Mix, giving each encounter its
// own bands inside [-75,-65] and [65,75]. A transition into a non-normal
// mode holds for one extra evaluation (hysteresis) so modes do not flicker
// at the boundary.
type ModeState struct {
	SurvivalThreshold    float64 `json:"survival_threshold"`
	DesperationThreshold float64 `json:"desperation_threshold"`
	Current              Mode    `json:"current"`
	HysteresisCounter    int     `json:"hysteresis_counter"`
	PreviousDisposition  float64 `json:"previous_disposition"`
}

// NewModeState derives thresholds from the encounter seed and starts in
// normal mode.
func NewModeState(seed uint64) *ModeState {
	offset := float64(rng.Mix(seed) % 11)
	return &ModeState{
		SurvivalThreshold:    -(65 + offset),
		DesperationThreshold: 65 + offset,
		Current:              ModeNormal,
	}
}

// Evaluate advances the mode machine one step for the given disposition
// and returns the resulting mode. PreviousDisposition updates on every
// call, including held and forced ones.
func (s *ModeState) Evaluate(disposition float64) Mode {
	prev := s.Current
	swing := math.Abs(disposition - s.PreviousDisposition)
	s.PreviousDisposition = disposition

	// A large swing always forces weakened, even through hysteresis.
	if swing >= weakenedSwing {
		s.Current = ModeWeakened
		if prev != ModeWeakened {
			s.HysteresisCounter = 1
		}
		return s.Current
	}

	if s.HysteresisCounter > 0 {
		s.HysteresisCounter--
		return s.Current
	}

	next := ModeNormal
	switch {
	case disposition <= s.SurvivalThreshold:
		next = ModeSurvival
	case disposition >= s.DesperationThreshold:
		next = ModeDesperation
	}
	if next != ModeNormal && next != prev {
		s.HysteresisCounter = 1
	}
	s.Current = next
	return next
}
