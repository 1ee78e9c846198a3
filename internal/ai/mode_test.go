package ai

import (
	"testing"
)

func TestNewModeStateThresholdBands(t *testing.T) {
	seeds := []uint64{1, 2, 3, 42, 99, 645, 7777, 123456789}
	distinct := map[float64]bool{}
	for _, seed := range seeds {
		s := NewModeState(seed)
		if s.SurvivalThreshold < -75 || s.SurvivalThreshold > -65 {
			t.Errorf("seed %d: survival threshold %v outside [-75,-65]", seed, s.SurvivalThreshold)
		}
		if s.DesperationThreshold < 65 || s.DesperationThreshold > 75 {
			t.Errorf("seed %d: desperation threshold %v outside [65,75]", seed, s.DesperationThreshold)
		}
		if s.SurvivalThreshold != -s.DesperationThreshold {
			t.Errorf("seed %d: thresholds not symmetric: %v vs %v", seed, s.SurvivalThreshold, s.DesperationThreshold)
		}
		distinct[s.DesperationThreshold] = true
	}
	if len(distinct) < 2 {
		t.Errorf("expected at least 2 distinct thresholds across %d seeds, got %d", len(seeds), len(distinct))
	}
}

func TestEvaluateThresholdRule(t *testing.T) {
	s := NewModeState(7)

	if got := s.Evaluate(0); got != ModeNormal {
		t.Fatalf("disposition 0: expected normal, got %s", got)
	}
	// Step toward the survival threshold in small moves so the swing
	// rule never triggers.
	d := s.PreviousDisposition
	for d > s.SurvivalThreshold {
		d -= 20
		s.Evaluate(d)
	}
	s.Evaluate(d) // burn hysteresis hold
	if got := s.Evaluate(d); got != ModeSurvival {
		t.Fatalf("disposition %v: expected survival, got %s", d, got)
	}
}

func TestEvaluateSwingForcesWeakened(t *testing.T) {
	s := NewModeState(7)
	s.Evaluate(0)
	if got := s.Evaluate(30); got != ModeWeakened {
		t.Fatalf("swing of exactly +30: expected weakened, got %s", got)
	}

	// Swing overrides even a disposition deep in the desperation band.
	s2 := NewModeState(7)
	s2.Evaluate(50)
	s2.Evaluate(55)
	if got := s2.Evaluate(99); got != ModeWeakened {
		t.Fatalf("swing into desperation band: expected weakened, got %s", got)
	}
}

func TestEvaluateHysteresisHold(t *testing.T) {
	s := NewModeState(7)
	s.Evaluate(s.DesperationThreshold - 5)
	// Small step over the threshold: transition into desperation.
	if got := s.Evaluate(s.DesperationThreshold + 1); got != ModeDesperation {
		t.Fatalf("expected desperation, got %s", got)
	}
	if s.HysteresisCounter != 1 {
		t.Fatalf("expected hysteresis counter 1 after transition, got %d", s.HysteresisCounter)
	}
	// Disposition back under the threshold: held for one evaluation.
	if got := s.Evaluate(s.DesperationThreshold - 1); got != ModeDesperation {
		t.Fatalf("expected desperation held by hysteresis, got %s", got)
	}
	if s.HysteresisCounter != 0 {
		t.Fatalf("expected hysteresis counter decremented to 0, got %d", s.HysteresisCounter)
	}
	// The evaluation after that re-applies the raw rule.
	if got := s.Evaluate(s.DesperationThreshold - 1); got != ModeNormal {
		t.Fatalf("expected normal after hold expired, got %s", got)
	}
}

func TestEvaluateUpdatesPreviousDisposition(t *testing.T) {
	s := NewModeState(7)
	s.Evaluate(10)
	if s.PreviousDisposition != 10 {
		t.Fatalf("expected previous disposition 10, got %v", s.PreviousDisposition)
	}
	s.Evaluate(40) // forced weakened; still must update
	if s.PreviousDisposition != 40 {
		t.Fatalf("expected previous disposition 40, got %v", s.PreviousDisposition)
	}
}
