package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite database at the given path and keeps
// the schema current via AutoMigrate. Content definitions are never
// persisted; the config file stays the single source of truth.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&EncounterRecord{}, &ReplayFixture{}); err != nil {
		return nil, err
	}
	return db, nil
}
