package store

import (
	"encoding/hex"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// counterRecord is the persisted high-water mark for a single tag UID.
type counterRecord struct {
	UID     string `gorm:"primaryKey"`
	ReadCtr uint32
}

func (counterRecord) TableName() string { return "sdm_counters" }

// CounterStore persists the last-seen SDM read counter per tag UID, so a
// caller can reject a replayed tap whose counter has not advanced.
type CounterStore struct {
	db *gorm.DB
}

// Open opens (creating if necessary) a SQLite-backed CounterStore at path.
func Open(path string) (*CounterStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open counter store: %w", err)
	}
	if err := db.AutoMigrate(&counterRecord{}); err != nil {
		return nil, fmt.Errorf("migrate counter store: %w", err)
	}
	return &CounterStore{db: db}, nil
}

func uidKey(uid [7]byte) string {
	return hex.EncodeToString(uid[:])
}

// Last returns the last-seen read counter for uid, and whether one has
// been recorded yet.
func (s *CounterStore) Last(uid [7]byte) (uint32, bool, error) {
	var rec counterRecord
	err := s.db.First(&rec, "uid = ?", uidKey(uid)).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read counter: %w", err)
	}
	return rec.ReadCtr, true, nil
}

// Observe records readCtr as the tag's last-seen counter and reports
// whether it is fresh (strictly greater than any previously recorded
// value for this UID). A tap whose counter does not advance is not
// fresh and must be treated as a replay.
func (s *CounterStore) Observe(uid [7]byte, readCtr uint32) (fresh bool, err error) {
	last, seen, err := s.Last(uid)
	if err != nil {
		return false, err
	}
	if seen && readCtr <= last {
		return false, nil
	}

	rec := counterRecord{UID: uidKey(uid), ReadCtr: readCtr}
	if err := s.db.Save(&rec).Error; err != nil {
		return false, fmt.Errorf("save counter: %w", err)
	}
	return true, nil
}

// Close releases the underlying database connection.
func (s *CounterStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
