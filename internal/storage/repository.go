package storage

import "time"

type Repository interface {
	CreateEncounter(rec *EncounterRecord) error
	GetEncounterByID(encounterID string) (*EncounterRecord, error)
	UpdateEncounter(rec *EncounterRecord) error
	ListEncounters(status string, limit int) ([]EncounterRecord, error)
	// FindStaleEncounters returns in-progress encounters whose last
	// update is at or before the cutoff. The caller decides how to
	// resolve them (for example, marking them abandoned).
	FindStaleEncounters(cutoff time.Time) ([]EncounterRecord, error)

	SaveFixture(f *ReplayFixture) error
	GetFixtureByName(name string) (*ReplayFixture, error)
	ListFixtures() ([]ReplayFixture, error)
}
