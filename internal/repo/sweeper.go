package repo

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// sweeper periodically removes expired rows from backends without native
// key expiry.
type sweeper struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func startSweeper(backend string, interval time.Duration, sweep func(ctx context.Context) (int64, error)) *sweeper {
	s := &sweeper{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(s.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-t.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				n, err := sweep(ctx)
				cancel()
				if err != nil {
					log.Warn().Err(err).Str("backend", backend).Msg("sweep_failed")
					continue
				}
				if n > 0 {
					log.Debug().Str("backend", backend).Int64("removed", n).Msg("sweep")
				}
			}
		}
	}()
	return s
}

// halt stops the loop and waits for an in-flight sweep. Safe on nil.
func (s *sweeper) halt() {
	if s == nil {
		return
	}
	s.once.Do(func() { close(s.stop) })
	<-s.done
}
