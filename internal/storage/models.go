package storage

import "time"

// Encounter status values.
const (
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
	StatusAbandoned  = "abandoned"
)

// EncounterRecord persists one encounter. Engine state lives in the
// snapshot blob; the trace blob accumulates every call so any stored
// encounter can be replayed and verified from scratch.
type EncounterRecord struct {
	ID          uint   `gorm:"primarykey" json:"-"`
	EncounterID string `gorm:"uniqueIndex;size:64" json:"encounter_id"`
	Status      string `gorm:"index" json:"status"`
	Seed        uint64 `json:"seed"`
	Round       int    `json:"round"`
	Phase       string `json:"phase"`

	ContextJSON  []byte `json:"-"`
	SnapshotJSON []byte `json:"-"`
	TraceJSON    []byte `json:"-"`

	Classification string `json:"classification,omitempty"`
	Fingerprint    string `gorm:"size:64" json:"fingerprint,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReplayFixture is a stored golden trace: context, trace and the
// fingerprint the replay must reproduce.
type ReplayFixture struct {
	ID          uint   `gorm:"primarykey" json:"-"`
	Name        string `gorm:"uniqueIndex;size:64" json:"name"`
	ContextJSON []byte `json:"-"`
	TraceJSON   []byte `json:"-"`
	Fingerprint string `gorm:"size:64" json:"fingerprint"`

	CreatedAt time.Time `json:"created_at"`
}
