package redis

import (
	"context"
	"errors"
	"strings"

	crerr "github.com/cockroachdb/errors"
	goredis "github.com/redis/go-redis/v9"
)

// Store maps keys onto plain Redis strings. Values carry no expiry.
type Store struct {
	rdb    *goredis.Client
	prefix string
}

// NewStore connects to redisURL (redis:// or rediss://) and verifies the
// connection with PING.
func NewStore(ctx context.Context, redisURL, prefix string) (*Store, error) {
	redisURL = strings.TrimSpace(redisURL)
	if redisURL == "" {
		return nil, crerr.New("REDIS_URL is required for the redis storage backend")
	}

	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, crerr.Wrap(err, "parse REDIS_URL")
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, crerr.Wrapf(err, "redis ping %s", opts.Addr)
	}

	return &Store{rdb: rdb, prefix: prefix}, nil
}

func (s *Store) Name() string {
	return "redis"
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "redis get %s", key)
	}
	return raw, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return crerr.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		return crerr.Wrapf(err, "redis del %s", key)
	}
	return nil
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
