package kv

import (
	"context"
	"time"
)

type timeoutStore struct {
	inner   Store
	timeout time.Duration
}

// WithTimeout bounds every call on inner by d. A non-positive d returns inner.
func WithTimeout(inner Store, d time.Duration) Store {
	if d <= 0 {
		return inner
	}
	return &timeoutStore{inner: inner, timeout: d}
}

func (s *timeoutStore) Name() string {
	return s.inner.Name()
}

func (s *timeoutStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Get(ctx, key)
}

func (s *timeoutStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Set(ctx, key, value)
}

func (s *timeoutStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.inner.Delete(ctx, key)
}
