package rng

// Source is the single deterministic random stream owned by an encounter.
// It is a splitmix64 generator: the state advances by a fixed odd constant
// and each output is a finalizing mix of the new state. The mix function is
// part of the replay/checkpoint format: changing it invalidates every
// recorded fingerprint, so it must never change without a format version
// bump.
type Source struct {
	state uint64
	draws uint64
}

// New creates a source seeded with the given 64-bit seed.
func New(seed uint64) *Source {
	return &Source{state: seed}
}

// Mix applies one splitmix64 finalization step to v. It is the pinned hash
// used everywhere a seed must be reduced to a small deterministic value
// (e.g. per-encounter AI thresholds).
func Mix(v uint64) uint64 {
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

// Uint64 returns the next raw 64-bit value and advances the stream.
func (s *Source) Uint64() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	s.draws++
	return z ^ (z >> 31)
}

// Intn mirrors math/rand.Intn for this stream. n must be positive.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Uint64() % uint64(n))
}

// Range returns a value in [min, max] inclusive.
func (s *Source) Range(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return min + s.Intn(max-min+1)
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.Uint64()>>11) / (1 << 53)
}

// WeightedIndex picks an index by weighted selection with a single draw.
// Weights must be non-negative; a zero total returns 0 without drawing.
func (s *Source) WeightedIndex(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	roll := s.Intn(total)
	acc := 0
	for i, w := range weights {
		acc += w
		if roll < acc {
			return i
		}
	}
	return len(weights) - 1
}

// Draws returns how many values this source has produced. It is part of the
// step digest so replays can detect any divergence in RNG consumption.
func (s *Source) Draws() uint64 {
	return s.draws
}

// State is an exact snapshot of a source, suitable for JSON checkpoints.
type State struct {
	State uint64 `json:"state"`
	Draws uint64 `json:"draws"`
}

// Snapshot captures the current stream position.
func (s *Source) Snapshot() State {
	return State{State: s.state, Draws: s.draws}
}

// Restore rebuilds a source from a snapshot. The restored source produces
// exactly the values the original would have produced next.
func Restore(st State) *Source {
	return &Source{state: st.State, draws: st.Draws}
}
