package replay

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/velesar/fateweaver/internal/encounter"
)

// StepKind distinguishes player actions from phase advances in a trace.
type StepKind string

const (
	StepAction  StepKind = "action"
	StepAdvance StepKind = "advance"
)

// TraceStep is one recorded engine call.
type TraceStep struct {
	Kind   StepKind          `json:"kind"`
	Action *encounter.Action `json:"action,omitempty"`
}

// Trace is an ordered action log for one encounter, sufficient together
// with the construction context to reproduce the full run.
type Trace struct {
	Seed  uint64      `json:"seed"`
	Steps []TraceStep `json:"steps"`
}

// Append records one step.
func (t *Trace) Append(kind StepKind, action *encounter.Action) {
	t.Steps = append(t.Steps, TraceStep{Kind: kind, Action: action})
}

// Canonical renders the trace in a stable line-oriented form. Field
// order is fixed; changing it breaks every stored fingerprint.
func (t *Trace) Canonical() string {
	var b strings.Builder
	fmt.Fprintf(&b, "seed:%d\n", t.Seed)
	for i, s := range t.Steps {
		fmt.Fprintf(&b, "%d:%s", i, s.Kind)
		if s.Action != nil {
			fmt.Fprintf(&b, ":%s:%s:%s:%s", s.Action.Kind, s.Action.Target, s.Action.CardID, strings.Join(s.Action.CardIDs, ","))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Fingerprint hashes the canonical trace form.
func (t *Trace) Fingerprint() string {
	sum := sha256.Sum256([]byte(t.Canonical()))
	return hex.EncodeToString(sum[:])
}
