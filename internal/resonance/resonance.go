package resonance

// Zone classifies the world resonance value into one of five bands running
// from deep Nav (dark) to deep Prav (light).
type Zone string

const (
	ZoneDeepNav  Zone = "deep_nav"
	ZoneNav      Zone = "nav"
	ZoneYav      Zone = "yav"
	ZonePrav     Zone = "prav"
	ZoneDeepPrav Zone = "deep_prav"
)

const (
	// MinValue and MaxValue bound the resonance scalar.
	MinValue = -100.0
	MaxValue = 100.0
)

// ZoneFor classifies a resonance value. The nav/yav boundary is asymmetric:
// both -21 and -20 classify as yav, while -22 and below (down to -60) are
// nav. This exact boundary is load-bearing for recorded fixtures.
func ZoneFor(v float64) Zone {
	switch {
	case v <= -61:
		return ZoneDeepNav
	case v < -21:
		return ZoneNav
	case v <= 20:
		return ZoneYav
	case v <= 60:
		return ZonePrav
	default:
		return ZoneDeepPrav
	}
}

// ShiftRecord is the audit entry returned by every Shift call so the caller
// can log the change with its provenance.
type ShiftRecord struct {
	Amount         float64 `json:"amount"`
	Source         string  `json:"source"`
	ResultingValue float64 `json:"resulting_value"`
}

// Engine holds the single world resonance scalar. All writes clamp, so the
// value is always inside [MinValue, MaxValue].
type Engine struct {
	value float64
}

// NewEngine creates an engine with a clamped initial value.
func NewEngine(initial float64) *Engine {
	return &Engine{value: clamp(initial)}
}

// Value returns the current resonance value.
func (e *Engine) Value() float64 {
	return e.value
}

// ActiveZone returns the zone for the current value.
func (e *Engine) ActiveZone() Zone {
	return ZoneFor(e.value)
}

// Shift adds amount to the current value, clamps, and returns a record of
// the change for state-change logging.
func (e *Engine) Shift(amount float64, source string) ShiftRecord {
	e.value = clamp(e.value + amount)
	return ShiftRecord{Amount: amount, Source: source, ResultingValue: e.value}
}

// SetValue replaces the value directly (save restore), clamping as usual.
func (e *Engine) SetValue(v float64) {
	e.value = clamp(v)
}

func clamp(v float64) float64 {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}
