package storage

import (
	"time"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateEncounter(rec *EncounterRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetEncounterByID(encounterID string) (*EncounterRecord, error) {
	var rec EncounterRecord
	if err := r.db.Where("encounter_id = ?", encounterID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) UpdateEncounter(rec *EncounterRecord) error {
	return r.db.Save(rec).Error
}

func (r *sqliteRepository) ListEncounters(status string, limit int) ([]EncounterRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := r.db.Model(&EncounterRecord{}).Order("updated_at DESC").Limit(limit)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var recs []EncounterRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) FindStaleEncounters(cutoff time.Time) ([]EncounterRecord, error) {
	var recs []EncounterRecord
	err := r.db.Where("status = ? AND updated_at <= ?", StatusInProgress, cutoff).Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) SaveFixture(f *ReplayFixture) error {
	existing := ReplayFixture{}
	err := r.db.Where("name = ?", f.Name).First(&existing).Error
	if err == nil {
		f.ID = existing.ID
		return r.db.Save(f).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(f).Error
}

func (r *sqliteRepository) GetFixtureByName(name string) (*ReplayFixture, error) {
	var f ReplayFixture
	if err := r.db.Where("name = ?", name).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *sqliteRepository) ListFixtures() ([]ReplayFixture, error) {
	var fixtures []ReplayFixture
	if err := r.db.Model(&ReplayFixture{}).Order("name ASC").Find(&fixtures).Error; err != nil {
		return nil, err
	}
	return fixtures, nil
}
