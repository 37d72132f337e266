package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SnapshotRecord is the durable sidecar row for one snapshot document. The
// digest lives out of band, keyed by the document's path, so external edits
// to the document body never disturb it and a restart recovers it without
// recomputation.
type SnapshotRecord struct {
	ID          uint   `gorm:"primarykey"`
	DocPath     string `gorm:"uniqueIndex;not null"`
	Digest      string `gorm:"not null"`
	DocChecksum string
	SyncedAt    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store persists repository fingerprints across process restarts.
type Store struct {
	db *gorm.DB
}

// Open opens or creates the sqlite store at dbPath and migrates the schema.
func Open(dbPath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}
	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveDigest upserts the fingerprint for docPath. docBody is the document
// content just written; its checksum rides along for external edit notices.
func (s *Store) SaveDigest(docPath, digest string, docBody []byte) error {
	now := time.Now()
	record := SnapshotRecord{
		DocPath:     docPath,
		Digest:      digest,
		DocChecksum: Checksum(docBody),
		SyncedAt:    now,
	}
	result := s.db.Where(SnapshotRecord{DocPath: docPath}).
		Assign(SnapshotRecord{Digest: digest, DocChecksum: record.DocChecksum, SyncedAt: now}).
		FirstOrCreate(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to persist fingerprint for %s: %w", docPath, result.Error)
	}
	return nil
}

// Lookup returns the record for docPath, or nil when none exists yet.
func (s *Store) Lookup(docPath string) (*SnapshotRecord, error) {
	var record SnapshotRecord
	err := s.db.Where("doc_path = ?", docPath).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Digest returns the persisted fingerprint for docPath, empty when unknown.
func (s *Store) Digest(docPath string) string {
	record, err := s.Lookup(docPath)
	if err != nil || record == nil {
		return ""
	}
	return record.Digest
}

// Checksum is the integrity hash stored beside each digest so independent
// edits to the document body can be reported.
func Checksum(body []byte) string {
	return fmt.Sprintf("%x", xxhash.Sum64(body))
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
