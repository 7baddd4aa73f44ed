package repo

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tbourn/go-temp-markdown/internal/config"
	"github.com/tbourn/go-temp-markdown/internal/domain"
)

// RedisStore keeps records in Redis under their storage key and relies on
// the server's native EX expiry.
type RedisStore struct {
	client redis.UniversalClient
}

// RedisOptions builds client options from cfg. REDIS_URL (redis:// or
// rediss://) wins over the discrete host/port fields.
func RedisOptions(cfg config.RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		o, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, err
		}
		opts = o
	} else {
		opts = &redis.Options{
			Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
		if cfg.TLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	return opts, nil
}

// OpenRedis creates a client from cfg and pings it once.
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := RedisOptions(cfg)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailable(err)
	}
	return NewRedisStore(client), nil
}

// NewRedisStore wraps an existing client. The store owns it from here on.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Put stores rec under key with a native expiry of ttl (SET key val EX).
func (s *RedisStore) Put(ctx context.Context, key string, rec *domain.Record, ttl time.Duration) error {
	return putRecord(ctx, s, key, rec, ttl)
}

// Get returns the record stored under key, or ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.Record, error) {
	return getRecord(ctx, s, key)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return unavailable(s.client.Del(ctx, key).Err())
}

// Probe performs a SET/GET/DEL round trip on HealthKey.
func (s *RedisStore) Probe(ctx context.Context) error { return probe(ctx, s) }

// Close releases the client's connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }

func (s *RedisStore) putRaw(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return unavailable(s.client.Set(ctx, key, val, ttl).Err())
}

func (s *RedisStore) getRaw(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return b, nil
}
