package replay

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/velesar/fateweaver/internal/encounter"
)

// Options tunes a replay run. CheckpointAfter inserts a snapshot
// save/restore cycle after the given 1-based step; zero disables it.
// The checkpointed run must be indistinguishable from a plain one.
type Options struct {
	CheckpointAfter int
}

// Report is the outcome of driving a trace through a fresh engine.
type Report struct {
	StepDigests      []string          `json:"step_digests"`
	FinalFingerprint string            `json:"final_fingerprint"`
	TraceFingerprint string            `json:"trace_fingerprint"`
	Result           *encounter.Result `json:"result,omitempty"`
	Rejections       []string          `json:"rejections,omitempty"`
}

// stateDigest hashes the canonical engine state. Every replay-relevant
// scalar appears here in fixed order; enemies follow roster order.
func stateDigest(e *encounter.Engine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "round:%d|phase:%s|hero:%d|tension:%d|resonance:%g", e.Round(), e.Phase(), e.Hero().HP, e.Tension(), e.Resonance())
	draw, discard := e.Deck().Counts()
	st := e.RNGState()
	fmt.Fprintf(&b, "|deck:%d/%d/%d|hand:%d|rng:%d/%d", draw, discard, e.Deck().TotalCards(), len(e.Hand()), st.Draws, st.State)
	for _, en := range e.Enemies() {
		fmt.Fprintf(&b, "|%s:%d/%d/%g/%s/%s", en.InstanceID, en.HP, en.WP, en.Disposition, en.Outcome, en.Mode.Current)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Run replays a trace against a fresh engine built from ctx. The trace
// seed overrides the context seed so a stored trace is self-contained.
// Rejected steps are reported, not fatal; an engine construction or
// restore failure is.
func Run(ctx encounter.Context, trace *Trace, opts Options) (*Report, error) {
	ctx.Seed = trace.Seed
	eng, err := encounter.NewEngine(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{TraceFingerprint: trace.Fingerprint()}
	for i, step := range trace.Steps {
		switch step.Kind {
		case StepAction:
			if step.Action == nil {
				return nil, fmt.Errorf("step %d: action step without action", i)
			}
			res := eng.PerformAction(*step.Action)
			if !res.Success {
				report.Rejections = append(report.Rejections, fmt.Sprintf("step %d: %s", i, res.Reason))
			}
		case StepAdvance:
			if _, err := eng.AdvancePhase(); err != nil {
				report.Rejections = append(report.Rejections, fmt.Sprintf("step %d: %v", i, err))
			}
		default:
			return nil, fmt.Errorf("step %d: unknown step kind %q", i, step.Kind)
		}
		report.StepDigests = append(report.StepDigests, stateDigest(eng))

		if opts.CheckpointAfter > 0 && i+1 == opts.CheckpointAfter {
			snap := eng.Snapshot()
			eng, err = encounter.Restore(ctx, snap)
			if err != nil {
				return nil, fmt.Errorf("step %d: restore: %w", i, err)
			}
		}
	}

	report.FinalFingerprint = finalFingerprint(report.StepDigests, stateDigest(eng))
	if eng.Phase() == encounter.PhaseFinished {
		res := eng.FinishEncounter()
		report.Result = &res
	}
	return report, nil
}

// finalFingerprint chains every step digest with the final state digest.
func finalFingerprint(steps []string, final string) string {
	h := sha256.New()
	for _, d := range steps {
		h.Write([]byte(d))
		h.Write([]byte{'\n'})
	}
	h.Write([]byte(final))
	return hex.EncodeToString(h.Sum(nil))
}

// Verify replays the trace twice, once plain and once with a checkpoint
// midway, and reports whether all digests and fingerprints agree. This
// is the harness's core determinism check.
func Verify(ctx encounter.Context, trace *Trace) (bool, error) {
	plain, err := Run(ctx, trace, Options{})
	if err != nil {
		return false, err
	}
	mid := len(trace.Steps) / 2
	if mid == 0 {
		mid = 1
	}
	checkpointed, err := Run(ctx, trace, Options{CheckpointAfter: mid})
	if err != nil {
		return false, err
	}
	if plain.FinalFingerprint != checkpointed.FinalFingerprint {
		return false, nil
	}
	if len(plain.StepDigests) != len(checkpointed.StepDigests) {
		return false, nil
	}
	for i := range plain.StepDigests {
		if plain.StepDigests[i] != checkpointed.StepDigests[i] {
			return false, nil
		}
	}
	return true, nil
}
