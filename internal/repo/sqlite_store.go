package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-temp-markdown/internal/domain"
)

// SQLiteStore keeps records in the temp_documents table. Expiry is enforced
// on read by filtering expires_at, and rows are reclaimed by a sweeper.
type SQLiteStore struct {
	db  *gorm.DB
	now func() time.Time
	sw  *sweeper
}

// NewSQLiteStore wraps a migrated database. A positive sweepEvery starts the
// background sweeper; Close stops it.
func NewSQLiteStore(db *gorm.DB, sweepEvery time.Duration) *SQLiteStore {
	s := &SQLiteStore{db: db, now: time.Now}
	if sweepEvery > 0 {
		s.sw = startSweeper("sqlite", sweepEvery, s.Sweep)
	}
	return s
}

// OpenSQLiteStore opens the database at path, migrates it, and returns a
// store with its sweeper running.
func OpenSQLiteStore(path string, sweepEvery time.Duration) (*SQLiteStore, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		if sqlDB, e := db.DB(); e == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return NewSQLiteStore(db, sweepEvery), nil
}

// Put upserts rec under key with expires_at = now + ttl.
func (s *SQLiteStore) Put(ctx context.Context, key string, rec *domain.Record, ttl time.Duration) error {
	return putRecord(ctx, s, key, rec, ttl)
}

// Get returns the live record under key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*domain.Record, error) {
	return getRecord(ctx, s, key)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).
		Where("doc_key = ?", key).
		Delete(&domain.DocumentRow{}).Error
	return unavailable(err)
}

// Probe performs a write/read/delete round trip on HealthKey.
func (s *SQLiteStore) Probe(ctx context.Context) error { return probe(ctx, s) }

// Sweep deletes every expired row and reports how many were removed.
func (s *SQLiteStore) Sweep(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now().UTC()).
		Delete(&domain.DocumentRow{})
	return res.RowsAffected, unavailable(res.Error)
}

// Close stops the sweeper and closes the database.
func (s *SQLiteStore) Close() error {
	s.sw.halt()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStore) putRaw(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	row := domain.DocumentRow{
		Key:       key,
		Payload:   val,
		ExpiresAt: s.now().UTC().Add(ttl),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at"}),
		}).
		Create(&row).Error
	return unavailable(err)
}

func (s *SQLiteStore) getRaw(ctx context.Context, key string) ([]byte, error) {
	var row domain.DocumentRow
	err := s.db.WithContext(ctx).
		Where("doc_key = ? AND expires_at > ?", key, s.now().UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return row.Payload, nil
}
