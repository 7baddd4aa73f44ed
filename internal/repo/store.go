// Package repo implements the record stores that hold hosted documents.
// Every backend offers the same small contract: Put with a native TTL, Get,
// idempotent Delete, a health Probe, and Close.
//
// Error semantics:
//   - A key that was never written, was deleted, or has outlived its TTL
//     yields ErrNotFound.
//   - Every other failure (unreachable backend, timeout, corrupt payload)
//     is wrapped in ErrUnavailable. Callers must not retry automatically.
//
// Backends:
//
//   - RedisStore: go-redis client, native EX expiry (default).
//   - SQLiteStore: GORM table with an expires_at column and a sweeper.
//   - BoltStore: bbolt bucket with an expiry-prefixed value and a sweeper.
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tbourn/go-temp-markdown/internal/domain"
)

var (
	// ErrNotFound is returned when a key is absent or its TTL has elapsed.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable wraps backend failures.
	ErrUnavailable = errors.New("record store unavailable")
)

// Health probe key and expiry. The probe value is removed right away; the
// TTL only guards against a crash between write and delete.
const (
	HealthKey = "health-check-test"
	HealthTTL = 60 * time.Second
)

// Store is the full backend surface used by the server wiring.
type Store interface {
	Put(ctx context.Context, key string, rec *domain.Record, ttl time.Duration) error
	Get(ctx context.Context, key string) (*domain.Record, error)
	Delete(ctx context.Context, key string) error
	Probe(ctx context.Context) error
	Close() error
}

// rawStore is the byte-level surface each backend implements; record
// encoding and the health probe are layered on top of it.
type rawStore interface {
	putRaw(ctx context.Context, key string, val []byte, ttl time.Duration) error
	getRaw(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

func unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func encodeRecord(rec *domain.Record) ([]byte, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: nil record", ErrUnavailable)
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, unavailable(err)
	}
	return b, nil
}

func decodeRecord(b []byte) (*domain.Record, error) {
	var rec domain.Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("%w: corrupt payload: %w", ErrUnavailable, err)
	}
	return &rec, nil
}

func putRecord(ctx context.Context, s rawStore, key string, rec *domain.Record, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: ttl must be positive", ErrUnavailable)
	}
	b, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	return s.putRaw(ctx, key, b, ttl)
}

func getRecord(ctx context.Context, s rawStore, key string) (*domain.Record, error) {
	b, err := s.getRaw(ctx, key)
	if err != nil {
		return nil, err
	}
	return decodeRecord(b)
}

// probe writes, reads back, and deletes HealthKey.
func probe(ctx context.Context, s rawStore) error {
	want := []byte(strconv.FormatInt(time.Now().UnixNano(), 10))
	if err := s.putRaw(ctx, HealthKey, want, HealthTTL); err != nil {
		return err
	}
	got, err := s.getRaw(ctx, HealthKey)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: probe value missing after write", ErrUnavailable)
	}
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: probe value mismatch", ErrUnavailable)
	}
	return s.Delete(ctx, HealthKey)
}
