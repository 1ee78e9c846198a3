package service

import (
	"encoding/json"
	"errors"

	"github.com/velesar/fateweaver/internal/constants"
	"github.com/velesar/fateweaver/internal/dedupe"
	"github.com/velesar/fateweaver/internal/encounter"
	"github.com/velesar/fateweaver/internal/logging"
	"github.com/velesar/fateweaver/internal/replay"
	"github.com/velesar/fateweaver/internal/storage"
)

var (
	ErrFixtureNotFound = errors.New("fixture not found")
	ErrFixtureName     = errors.New("fixture name is required")
)

// FixtureReport is the outcome of verifying one stored fixture.
type FixtureReport struct {
	Name                string `json:"name"`
	Deterministic       bool   `json:"deterministic"`
	FingerprintMatches  bool   `json:"fingerprint_matches"`
	StoredFingerprint   string `json:"stored_fingerprint"`
	ReplayedFingerprint string `json:"replayed_fingerprint"`
}

// Passed reports whether the fixture verified cleanly.
func (r FixtureReport) Passed() bool {
	return r.Deterministic && r.FingerprintMatches
}

// SaveFixture freezes a finished or in-progress encounter's trace as a
// named golden fixture. The stored fingerprint comes from a fresh
// replay, not from the live engine, so the fixture is self-validating.
func SaveFixture(repo storage.Repository, name, encounterID string) (*storage.ReplayFixture, error) {
	if name == "" {
		return nil, ErrFixtureName
	}
	rec, err := repo.GetEncounterByID(encounterID)
	if err != nil || rec == nil {
		return nil, ErrEncounterNotFound
	}
	var ctx encounter.Context
	if err := json.Unmarshal(rec.ContextJSON, &ctx); err != nil {
		return nil, err
	}
	var trace replay.Trace
	if err := json.Unmarshal(rec.TraceJSON, &trace); err != nil {
		return nil, err
	}
	report, err := replay.Run(ctx, &trace, replay.Options{})
	if err != nil {
		return nil, err
	}
	f := &storage.ReplayFixture{
		Name:        name,
		ContextJSON: rec.ContextJSON,
		TraceJSON:   rec.TraceJSON,
		Fingerprint: report.FinalFingerprint,
	}
	if err := repo.SaveFixture(f); err != nil {
		return nil, err
	}
	logging.Info("fixture saved", logging.Fields{
		constants.LogFieldFixture:     name,
		constants.LogFieldEncounterID: encounterID,
	})
	return f, nil
}

// VerifyFixture replays a stored fixture and checks both determinism
// (checkpointed run equals plain run) and the stored fingerprint.
// Concurrent calls for the same fixture share a single replay.
func VerifyFixture(repo storage.Repository, name string) (*FixtureReport, error) {
	v, err, _ := dedupe.VerifyGroup.Do(name, func() (interface{}, error) {
		return verifyFixture(repo, name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*FixtureReport), nil
}

func verifyFixture(repo storage.Repository, name string) (*FixtureReport, error) {
	f, err := repo.GetFixtureByName(name)
	if err != nil || f == nil {
		return nil, ErrFixtureNotFound
	}
	var ctx encounter.Context
	if err := json.Unmarshal(f.ContextJSON, &ctx); err != nil {
		return nil, err
	}
	var trace replay.Trace
	if err := json.Unmarshal(f.TraceJSON, &trace); err != nil {
		return nil, err
	}

	deterministic, err := replay.Verify(ctx, &trace)
	if err != nil {
		return nil, err
	}
	report, err := replay.Run(ctx, &trace, replay.Options{})
	if err != nil {
		return nil, err
	}
	return &FixtureReport{
		Name:                name,
		Deterministic:       deterministic,
		FingerprintMatches:  report.FinalFingerprint == f.Fingerprint,
		StoredFingerprint:   f.Fingerprint,
		ReplayedFingerprint: report.FinalFingerprint,
	}, nil
}

// VerifyAllFixtures runs every stored fixture and returns the reports.
func VerifyAllFixtures(repo storage.Repository) ([]FixtureReport, error) {
	fixtures, err := repo.ListFixtures()
	if err != nil {
		return nil, err
	}
	reports := make([]FixtureReport, 0, len(fixtures))
	for _, f := range fixtures {
		report, err := VerifyFixture(repo, f.Name)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}
