package repo

import (
	"context"
	"encoding/binary"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/tbourn/go-temp-markdown/internal/domain"
)

var boltBucket = []byte("temp_documents")

// BoltStore keeps records in a single bbolt bucket. Each value is laid out
// as an 8-byte big-endian expiry (unix nanoseconds) followed by the payload.
// Expired values read as absent and are reclaimed by a sweeper.
type BoltStore struct {
	db  *bolt.DB
	now func() time.Time
	sw  *sweeper
}

// OpenBolt opens (or creates) the bbolt file at path. A positive sweepEvery
// starts the background sweeper; Close stops it.
func OpenBolt(path string, sweepEvery time.Duration) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	s := &BoltStore{db: db, now: time.Now}
	if sweepEvery > 0 {
		s.sw = startSweeper("bolt", sweepEvery, s.Sweep)
	}
	return s, nil
}

// Put stores rec under key, expiring after ttl.
func (s *BoltStore) Put(ctx context.Context, key string, rec *domain.Record, ttl time.Duration) error {
	return putRecord(ctx, s, key, rec, ttl)
}

// Get returns the live record under key, or ErrNotFound.
func (s *BoltStore) Get(ctx context.Context, key string) (*domain.Record, error) {
	return getRecord(ctx, s, key)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *BoltStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	return unavailable(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	}))
}

// Probe performs a write/read/delete round trip on HealthKey.
func (s *BoltStore) Probe(ctx context.Context) error { return probe(ctx, s) }

// Sweep deletes every expired value and reports how many were removed.
func (s *BoltStore) Sweep(ctx context.Context) (int64, error) {
	now := s.now().UnixNano()
	var removed int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		var expired [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			if len(v) < 8 || int64(binary.BigEndian.Uint64(v[:8])) <= now {
				expired = append(expired, append([]byte(nil), k...))
			}
			return ctx.Err()
		}); err != nil {
			return err
		}
		for _, k := range expired {
			if err := b.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, unavailable(err)
}

// Close stops the sweeper and closes the database file.
func (s *BoltStore) Close() error {
	s.sw.halt()
	return s.db.Close()
}

func (s *BoltStore) putRaw(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	buf := make([]byte, 8+len(val))
	binary.BigEndian.PutUint64(buf[:8], uint64(s.now().Add(ttl).UnixNano()))
	copy(buf[8:], val)
	return unavailable(s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), buf)
	}))
}

func (s *BoltStore) getRaw(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}
	now := s.now().UnixNano()
	var (
		out   []byte
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(boltBucket).Get([]byte(key))
		if len(v) < 8 || int64(binary.BigEndian.Uint64(v[:8])) <= now {
			return nil
		}
		found = true
		out = append([]byte(nil), v[8:]...)
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return out, nil
}
