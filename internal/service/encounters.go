package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/velesar/fateweaver/internal/config"
	"github.com/velesar/fateweaver/internal/constants"
	"github.com/velesar/fateweaver/internal/encounter"
	"github.com/velesar/fateweaver/internal/fate"
	"github.com/velesar/fateweaver/internal/game"
	"github.com/velesar/fateweaver/internal/logging"
	"github.com/velesar/fateweaver/internal/replay"
	"github.com/velesar/fateweaver/internal/storage"
)

var (
	ErrEncounterNotFound = errors.New("encounter not found")
	ErrEncounterOver     = errors.New("encounter already finished")
	ErrUnknownEnemy      = errors.New("unknown enemy id")
	ErrNoEnemiesChosen   = errors.New("at least one enemy is required")
)

// EnemyView is the per-enemy block of an encounter view.
type EnemyView struct {
	InstanceID  string            `json:"instance_id"`
	Name        string            `json:"name"`
	HP          int               `json:"hp"`
	WP          int               `json:"wp,omitempty"`
	Disposition float64           `json:"disposition"`
	Outcome     game.Outcome      `json:"outcome"`
	Mode        string            `json:"mode"`
	Intent      *encounter.Intent `json:"intent,omitempty"`
}

// / EncounterView is what API callers see after every service call: the
// public state plus the events the call produced.
type EncounterView struct {
	EncounterID string            `json:"encounter_id"`
	Status      string            `json:"status"`
	Round       int               `json:"round"`
	Phase       encounter.Phase   `json:"phase"`
	Tension     int               `json:"tension"`
	Resonance   float64           `json:"resonance"`
	Hero        encounter.Hero    `json:"hero"`
	Enemies     []EnemyView       `json:"enemies"`
	Hand        []fate.Card       `json:"hand"`
	Success     bool              `json:"success"`
	Reason      string            `json:"reason,omitempty"`
	Events      []encounter.Event `json:"events"`
	Result      *encounter.Result `json:"result,omitempty"`
}

// StartEncounter builds an engine for the chosen enemies, persists the
// initial snapshot and returns the opening view. Enemy ids must exist in
// the loaded content; an empty selection is an error.
func StartEncounter(repo storage.Repository, cfg *config.LoadedConfig, enemyIDs []string, seed uint64) (*EncounterView, error) {
	if len(enemyIDs) == 0 {
		return nil, ErrNoEnemiesChosen
	}
	byID := make(map[string]game.EnemyDefinition, len(cfg.Enemies))
	for _, e := range cfg.Enemies {
		byID[e.ID] = e
	}
	chosen := make([]game.EnemyDefinition, 0, len(enemyIDs))
	for _, id := range enemyIDs {
		def, ok := byID[id]
		if !ok {
			return nil, ErrUnknownEnemy
		}
		chosen = append(chosen, def)
	}

	ctx := encounter.Context{
		Hero:       cfg.Hero,
		Enemies:    chosen,
		FateCards:  cfg.Deck,
		CardPool:   cfg.CardPool,
		SummonPool: cfg.SummonPool,
		Seed:       seed,
	}
	eng, err := encounter.NewEngine(ctx)
	if err != nil {
		return nil, err
	}

	rec := &storage.EncounterRecord{
		EncounterID: uuid.NewString(),
		Status:      storage.StatusInProgress,
		Seed:        seed,
	}
	trace := &replay.Trace{Seed: seed}
	if err := persistEngine(rec, ctx, eng, trace); err != nil {
		return nil, err
	}
	if err := repo.CreateEncounter(rec); err != nil {
		return nil, err
	}
	logging.Info("encounter started", logging.Fields{
		constants.LogFieldEncounterID: rec.EncounterID,
		constants.LogFieldSeed:        seed,
	})
	return buildView(rec, eng, encounter.ActionResult{Success: true, Events: []encounter.Event{}}), nil
}

// SubmitAction replays the stored engine state, performs one player
// action and persists the result. Rejected actions are returned to the
// caller but never recorded in the trace.
func SubmitAction(repo storage.Repository, encounterID string, action encounter.Action) (*EncounterView, error) {
	rec, ctx, eng, trace, err := loadEngine(repo, encounterID)
	if err != nil {
		return nil, err
	}
	if rec.Status != storage.StatusInProgress {
		return nil, ErrEncounterOver
	}

	res := eng.PerformAction(action)
	if res.Success {
		a := action
		trace.Append(replay.StepAction, &a)
		if err := persistEngine(rec, ctx, eng, trace); err != nil {
			return nil, err
		}
		if err := repo.UpdateEncounter(rec); err != nil {
			return nil, err
		}
	}
	return buildView(rec, eng, res), nil
}

// AdvancePhase steps the stored encounter one phase forward.
func AdvancePhase(repo storage.Repository, encounterID string) (*EncounterView, error) {
	rec, ctx, eng, trace, err := loadEngine(repo, encounterID)
	if err != nil {
		return nil, err
	}
	if rec.Status != storage.StatusInProgress {
		return nil, ErrEncounterOver
	}

	res, err := eng.AdvancePhase()
	if err != nil {
		if errors.Is(err, encounter.ErrEncounterFinished) {
			return nil, ErrEncounterOver
		}
		return nil, err
	}
	trace.Append(replay.StepAdvance, nil)
	if err := persistEngine(rec, ctx, eng, trace); err != nil {
		return nil, err
	}
	if err := repo.UpdateEncounter(rec); err != nil {
		return nil, err
	}
	return buildView(rec, eng, res), nil
}

// GetEncounter returns the current view without mutating anything.
func GetEncounter(repo storage.Repository, encounterID string) (*EncounterView, error) {
	rec, _, eng, _, err := loadEngine(repo, encounterID)
	if err != nil {
		return nil, err
	}
	return buildView(rec, eng, encounter.ActionResult{Success: true, Events: []encounter.Event{}}), nil
}

// VerifyEncounter replays the stored trace, with and without a mid-trace
// checkpoint, and reports whether both runs agree.
func VerifyEncounter(repo storage.Repository, encounterID string) (bool, error) {
	rec, err := repo.GetEncounterByID(encounterID)
	if err != nil {
		return false, ErrEncounterNotFound
	}
	var ctx encounter.Context
	if err := json.Unmarshal(rec.ContextJSON, &ctx); err != nil {
		return false, err
	}
	var trace replay.Trace
	if err := json.Unmarshal(rec.TraceJSON, &trace); err != nil {
		return false, err
	}
	return replay.Verify(ctx, &trace)
}

// AbandonStale marks in-progress encounters older than the cutoff as
// abandoned. Their snapshots and traces stay replayable.
func AbandonStale(repo storage.Repository, cutoff time.Time) (int, error) {
	recs, err := repo.FindStaleEncounters(cutoff)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range recs {
		rec := &recs[i]
		rec.Status = storage.StatusAbandoned
		if err := repo.UpdateEncounter(rec); err != nil {
			logging.Error("failed to abandon stale encounter", err, logging.Fields{
				constants.LogFieldEncounterID: rec.EncounterID,
			})
			continue
		}
		n++
	}
	if n > 0 {
		logging.Info("abandoned stale encounters", logging.Fields{"count": n})
	}
	return n, nil
}

func loadEngine(repo storage.Repository, encounterID string) (*storage.EncounterRecord, encounter.Context, *encounter.Engine, *replay.Trace, error) {
	var ctx encounter.Context
	rec, err := repo.GetEncounterByID(encounterID)
	if err != nil || rec == nil {
		return nil, ctx, nil, nil, ErrEncounterNotFound
	}
	if err := json.Unmarshal(rec.ContextJSON, &ctx); err != nil {
		return nil, ctx, nil, nil, err
	}
	var snap encounter.Snapshot
	if err := json.Unmarshal(rec.SnapshotJSON, &snap); err != nil {
		return nil, ctx, nil, nil, err
	}
	eng, err := encounter.Restore(ctx, snap)
	if err != nil {
		return nil, ctx, nil, nil, err
	}
	trace := &replay.Trace{}
	if err := json.Unmarshal(rec.TraceJSON, trace); err != nil {
		return nil, ctx, nil, nil, err
	}
	return rec, ctx, eng, trace, nil
}

func persistEngine(rec *storage.EncounterRecord, ctx encounter.Context, eng *encounter.Engine, trace *replay.Trace) error {
	ctxJSON, err := json.Marshal(ctx)
	if err != nil {
		return err
	}
	snapJSON, err := json.Marshal(eng.Snapshot())
	if err != nil {
		return err
	}
	traceJSON, err := json.Marshal(trace)
	if err != nil {
		return err
	}
	rec.ContextJSON = ctxJSON
	rec.SnapshotJSON = snapJSON
	rec.TraceJSON = traceJSON
	rec.Round = eng.Round()
	rec.Phase = string(eng.Phase())
	if eng.Phase() == encounter.PhaseFinished {
		rec.Status = storage.StatusFinished
		result := eng.FinishEncounter()
		rec.Classification = string(result.Classification)
		rec.Fingerprint = trace.Fingerprint()
	}
	return nil
}

func buildView(rec *storage.EncounterRecord, eng *encounter.Engine, res encounter.ActionResult) *EncounterView {
	view := &EncounterView{
		EncounterID: rec.EncounterID,
		Status:      rec.Status,
		Round:       eng.Round(),
		Phase:       eng.Phase(),
		Tension:     eng.Tension(),
		Resonance:   eng.Resonance(),
		Hero:        *eng.Hero(),
		Hand:        eng.Hand(),
		Success:     res.Success,
		Reason:      res.Reason,
		Events:      res.Events,
	}
	for _, en := range eng.Enemies() {
		view.Enemies = append(view.Enemies, EnemyView{
			InstanceID:  en.InstanceID,
			Name:        en.Def.Name,
			HP:          en.HP,
			WP:          en.WP,
			Disposition: en.Disposition,
			Outcome:     en.Outcome,
			Mode:        string(en.Mode.Current),
			Intent:      en.Intent,
		})
	}
	if eng.Phase() == encounter.PhaseFinished {
		result := eng.FinishEncounter()
		view.Result = &result
	}
	return view
}
