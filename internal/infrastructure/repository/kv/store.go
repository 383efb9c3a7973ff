package kv

import "context"

// Store is a byte-oriented key-value backend. Implementations must not keep
// references to value after Set returns.
type Store interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
