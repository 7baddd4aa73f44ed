// Package services – DocumentService
//
// DocumentService owns the lifecycle of hosted documents. Create validates
// content, allocates a fresh id, and persists the record with a native TTL.
// Fetch re-checks expiry against the record's own ExpiresAt (the store's TTL
// is treated as a hint) and schedules a best-effort delete for stale records.
// Purge deletes immediately and is idempotent.
//
// Ids are validated before any store access, so malformed input never
// reaches the backend.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/tbourn/go-temp-markdown/internal/domain"
	"github.com/tbourn/go-temp-markdown/internal/repo"
	"github.com/tbourn/go-temp-markdown/internal/shortid"
)

// idAttempts bounds the check-and-retry loop that guards against id collisions.
const idAttempts = 3

// RecordStore is the persistence contract required by DocumentService.
// Get must return repo.ErrNotFound for absent keys.
type RecordStore interface {
	Put(ctx context.Context, key string, rec *domain.Record, ttl time.Duration) error
	Get(ctx context.Context, key string) (*domain.Record, error)
	Delete(ctx context.Context, key string) error
}

// CreateInput carries a create request. ExpiresInHours is nil when the
// caller did not ask for a lifetime.
type CreateInput struct {
	Content        string
	Title          string
	ExpiresInHours *float64

	// Provenance, diagnostic only.
	UserAgent string
	Referrer  string
	ClientIP  string
}

// Created is the result of a successful Create.
type Created struct {
	Record         *domain.Record
	ExpiresInHours int
}

// DocumentService implements create, fetch, and purge over a RecordStore.
type DocumentService struct {
	Store RecordStore

	// Limits
	MaxContentBytes int
	DefaultTTLHours int
	MinTTLHours     int
	MaxTTLHours     int

	// LookupTimeout bounds a coalesced store lookup. The lookup is detached
	// from any single caller; each caller still stops waiting on its own ctx.
	LookupTimeout time.Duration
	// LazyDeleteTimeout bounds the background delete of an expired record.
	LazyDeleteTimeout time.Duration

	// Now and NewID are injectable for tests.
	Now   func() time.Time
	NewID func() (string, error)

	group   singleflight.Group
	mu      sync.Mutex // guards closed and pending.Add
	closed  bool
	pending sync.WaitGroup
}

// NewDocumentService constructs a DocumentService with the default limits:
// 1,000,000 bytes of content and lifetimes of 1..168 hours (default 24).
func NewDocumentService(store RecordStore) *DocumentService {
	return &DocumentService{
		Store:             store,
		MaxContentBytes:   1_000_000,
		DefaultTTLHours:   24,
		MinTTLHours:       1,
		MaxTTLHours:       168,
		LookupTimeout:     5 * time.Second,
		LazyDeleteTimeout: 5 * time.Second,
		Now:               time.Now,
		NewID:             shortid.Generate,
	}
}

// Create validates in, stores a new record, and returns it with the
// effective lifetime in hours. Nothing is written when validation fails.
func (s *DocumentService) Create(ctx context.Context, in CreateInput) (*Created, error) {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.Int("content.bytes", len(in.Content))),
	)
	defer span.End()

	if err := s.validateContent(in.Content); err != nil {
		observe("create", outcomeInvalid)
		return nil, err
	}

	hours := domain.ClampHours(in.ExpiresInHours, s.DefaultTTLHours, s.MinTTLHours, s.MaxTTLHours)
	ttl := time.Duration(hours) * time.Hour

	id, err := s.allocateID(ctx)
	if err != nil {
		observe("create", outcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "allocate id")
		return nil, err
	}

	now := s.Now().UTC().Truncate(time.Millisecond)
	rec := &domain.Record{
		ID:            id,
		Content:       in.Content,
		Title:         title(in.Title),
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
		ContentLength: len(in.Content),
		UserAgent:     orUnknown(in.UserAgent),
		Referrer:      orUnknown(in.Referrer),
		ClientIP:      strings.TrimSpace(in.ClientIP),
	}
	span.SetAttributes(attribute.String("document.id", id), attribute.Int("ttl.hours", hours))

	if err := s.Store.Put(ctx, domain.StorageKey(id), rec, ttl); err != nil {
		observe("create", outcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store put")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	observe("create", outcomeOK)
	docBytes.Observe(float64(rec.ContentLength))
	zerolog.Ctx(ctx).Info().
		Str("document_id", id).
		Int("size", rec.ContentLength).
		Time("expires_at", rec.ExpiresAt).
		Msg("document created")

	return &Created{Record: rec, ExpiresInHours: hours}, nil
}

// Fetch returns the live record for id. Concurrent fetches of the same id
// share one store lookup. An expired record yields ErrExpired and is deleted
// in the background; the caller is never blocked on that delete.
func (s *DocumentService) Fetch(ctx context.Context, id string) (*domain.Record, error) {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Fetch",
		trace.WithAttributes(attribute.String("document.id", id)),
	)
	defer span.End()

	if !shortid.Valid(id) {
		observe("fetch", outcomeInvalid)
		return nil, ErrInvalidID
	}
	key := domain.StorageKey(id)

	ch := s.group.DoChan(key, func() (any, error) {
		lctx, cancel := s.lookupContext(ctx)
		defer cancel()
		return s.Store.Get(lctx, key)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		observe("fetch", outcomeError)
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, "caller gave up")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, ctx.Err())
	}
	v, err := res.Val, res.Err
	if errors.Is(err, repo.ErrNotFound) {
		observe("fetch", outcomeNotFound)
		return nil, ErrNotFound
	}
	if err != nil {
		observe("fetch", outcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store get")
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	shared, _ := v.(*domain.Record)
	if shared == nil {
		observe("fetch", outcomeNotFound)
		return nil, ErrNotFound
	}

	if shared.IsExpired(s.Now()) {
		observe("fetch", outcomeExpired)
		s.lazyDelete(ctx, key)
		return nil, ErrExpired
	}

	observe("fetch", outcomeOK)
	zerolog.Ctx(ctx).Debug().Str("document_id", id).Int("size", shared.ContentLength).Msg("document retrieved")
	rec := *shared
	return &rec, nil
}

// Purge deletes the record for id. Purging an absent id is not an error.
func (s *DocumentService) Purge(ctx context.Context, id string) error {
	tr := otel.Tracer("services/DocumentService")
	ctx, span := tr.Start(ctx, "Purge",
		trace.WithAttributes(attribute.String("document.id", id)),
	)
	defer span.End()

	if !shortid.Valid(id) {
		observe("purge", outcomeInvalid)
		return ErrInvalidID
	}
	if err := s.Store.Delete(ctx, domain.StorageKey(id)); err != nil {
		observe("purge", outcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store delete")
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	observe("purge", outcomeOK)
	zerolog.Ctx(ctx).Info().Str("document_id", id).Msg("document purged")
	return nil
}

// Wait blocks until every scheduled background delete has finished. After
// Wait, expired records found by Fetch are left to the store's native expiry.
func (s *DocumentService) Wait() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pending.Wait()
}

// lookupContext detaches the shared lookup from the leading caller so its
// cancellation cannot fail the other callers of the same key.
func (s *DocumentService) lookupContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if s.LookupTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.LookupTimeout)
}

// lazyDelete removes an expired key on a detached context so the request
// can complete first. Failures are logged and otherwise ignored.
func (s *DocumentService) lazyDelete(parent context.Context, key string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		zerolog.Ctx(parent).Debug().Str("key", key).Msg("lazy delete skipped after shutdown")
		return
	}
	s.pending.Add(1)
	s.mu.Unlock()
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.LazyDeleteTimeout)
		defer cancel()
		if err := s.Store.Delete(ctx, key); err != nil {
			observe("lazy_delete", outcomeError)
			zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("lazy delete failed")
			return
		}
		observe("lazy_delete", outcomeOK)
	}()
}

// allocateID draws ids until one is unused in the store.
func (s *DocumentService) allocateID(ctx context.Context) (string, error) {
	for i := 0; i < idAttempts; i++ {
		id, err := s.NewID()
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}
		_, err = s.Store.Get(ctx, domain.StorageKey(id))
		if errors.Is(err, repo.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		zerolog.Ctx(ctx).Warn().Str("document_id", id).Int("attempt", i+1).Msg("id collision")
	}
	return "", fmt.Errorf("%w: no free id after %d attempts", ErrStoreUnavailable, idAttempts)
}

func (s *DocumentService) validateContent(content string) error {
	if content == "" {
		return ErrEmptyContent
	}
	if s.MaxContentBytes > 0 && len(content) > s.MaxContentBytes {
		return ErrContentTooLarge
	}
	if !utf8.ValidString(content) || strings.IndexByte(content, 0) >= 0 {
		return ErrInvalidContent
	}
	return nil
}

// title returns t unchanged, or domain.DefaultTitle when it is empty.
// Header-safe cleanup happens in Record.Filename.
func title(t string) string {
	if t == "" {
		return domain.DefaultTitle
	}
	return t
}

func orUnknown(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return domain.UnknownProvenance
	}
	return v
}
