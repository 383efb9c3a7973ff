package kv

import (
	"context"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

// MirroredStore reads from the primary and writes to the primary and every
// mirror concurrently. Only the primary's write error is returned; mirror
// failures are logged.
type MirroredStore struct {
	primary Store
	mirrors []Store
	pool    *ants.Pool
	logger  *logging.Logger
}

func NewMirroredStore(primary Store, mirrors []Store, workers int, logger *logging.Logger) (*MirroredStore, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workers < 1 {
		workers = len(mirrors) + 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, crerr.Wrap(err, "create mirror worker pool")
	}

	return &MirroredStore{
		primary: primary,
		mirrors: mirrors,
		pool:    pool,
		logger:  logger,
	}, nil
}

func (s *MirroredStore) Name() string {
	names := make([]string, 0, len(s.mirrors)+1)
	names = append(names, s.primary.Name())
	for _, m := range s.mirrors {
		names = append(names, m.Name())
	}
	return strings.Join(names, "+")
}

func (s *MirroredStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.primary.Get(ctx, key)
}

func (s *MirroredStore) Set(ctx context.Context, key string, value []byte) error {
	return s.fanOut(ctx, "set", func(ctx context.Context, store Store) error {
		return store.Set(ctx, key, value)
	})
}

func (s *MirroredStore) Delete(ctx context.Context, key string) error {
	return s.fanOut(ctx, "delete", func(ctx context.Context, store Store) error {
		return store.Delete(ctx, key)
	})
}

// Close releases the worker pool.
func (s *MirroredStore) Close() {
	s.pool.Release()
}

func (s *MirroredStore) fanOut(ctx context.Context, op string, fn func(context.Context, Store) error) error {
	targets := make([]Store, 0, len(s.mirrors)+1)
	targets = append(targets, s.primary)
	targets = append(targets, s.mirrors...)
	errs := make([]error, len(targets))

	var workers sync.WaitGroup
	for idx, store := range targets {
		workers.Add(1)
		task := func() {
			defer workers.Done()
			var catcher panics.Catcher
			catcher.Try(func() { errs[idx] = fn(ctx, store) })
			if rec := catcher.Recovered(); rec != nil {
				errs[idx] = crerr.Wrapf(rec.AsError(), "%s %s panicked", store.Name(), op)
			}
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool closed or saturated; keep the write.
			task()
		}
	}
	workers.Wait()

	for idx := 1; idx < len(targets); idx++ {
		if errs[idx] != nil {
			s.logger.WarnContext(ctx, "mirror write failed", "op", op, "store", targets[idx].Name(), "error", errs[idx])
		}
	}
	return errs[0]
}
