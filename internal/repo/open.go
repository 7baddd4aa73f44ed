package repo

import (
	"context"
	"fmt"

	"github.com/tbourn/go-temp-markdown/internal/config"
)

// Open constructs the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		s, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := OpenSQLiteStore(cfg.SQLitePath, cfg.SweepInterval)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendBolt:
		s, err := OpenBolt(cfg.BoltPath, cfg.SweepInterval)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Compile-time interface checks.
var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*BoltStore)(nil)
)
