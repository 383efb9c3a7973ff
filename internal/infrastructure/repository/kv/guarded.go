package kv

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/league-scoreboard/internal/platform/resilience"
)

type guardedStore struct {
	inner   Store
	breaker *resilience.CircuitBreaker
}

// Guard wraps a remote store with a circuit breaker. A disabled config
// returns the store unchanged.
func Guard(inner Store, cfg resilience.CircuitBreakerConfig, logger *logging.Logger) Store {
	if !cfg.Enabled {
		return inner
	}
	if logger == nil {
		logger = logging.Default()
	}

	breaker := resilience.NewCircuitBreaker(cfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("storage circuit breaker state changed", "store", inner.Name(), "from", from, "to", to)
	})
	return &guardedStore{inner: inner, breaker: breaker}
}

func (s *guardedStore) Name() string {
	return s.inner.Name()
}

func (s *guardedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value []byte
		found bool
	)
	err := s.breaker.Do(ctx, func(ctx context.Context) error {
		var getErr error
		value, found, getErr = s.inner.Get(ctx, key)
		return getErr
	})
	return value, found, s.wrap(err)
}

func (s *guardedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.wrap(s.breaker.Do(ctx, func(ctx context.Context) error {
		return s.inner.Set(ctx, key, value)
	}))
}

func (s *guardedStore) Delete(ctx context.Context, key string) error {
	return s.wrap(s.breaker.Do(ctx, func(ctx context.Context) error {
		return s.inner.Delete(ctx, key)
	}))
}

func (s *guardedStore) wrap(err error) error {
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		return crerr.Wrapf(err, "%s unavailable", s.inner.Name())
	}
	return err
}
