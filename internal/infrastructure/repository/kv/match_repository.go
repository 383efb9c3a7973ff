package kv

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/valyala/bytebufferpool"
)

const DefaultMatchLogKey = "16league_matches"

// MatchRepository stores the whole match log as one JSON array under a
// single key.
type MatchRepository struct {
	store Store
	key   string
}

var _ match.Repository = (*MatchRepository)(nil)

func NewMatchRepository(store Store, key string) *MatchRepository {
	if key == "" {
		key = DefaultMatchLogKey
	}
	return &MatchRepository{store: store, key: key}
}

func (r *MatchRepository) Load(ctx context.Context) ([]match.Record, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, r.unavailable(err, "read")
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}

	var records []match.Record
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, crerr.Wrapf(err, "decode %s", r.key)
	}
	return records, nil
}

func (r *MatchRepository) Save(ctx context.Context, records []match.Record) error {
	if records == nil {
		records = []match.Record{}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(records); err != nil {
		return crerr.Wrapf(err, "encode %s", r.key)
	}
	if err := r.store.Set(ctx, r.key, buf.Bytes()); err != nil {
		return r.unavailable(err, "write")
	}
	return nil
}

func (r *MatchRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return r.unavailable(err, "delete")
	}
	return nil
}

// unavailable tags a backend failure so callers can tell it apart from a
// payload that failed to decode.
func (r *MatchRepository) unavailable(err error, op string) error {
	return crerr.Wrapf(fmt.Errorf("%w: %w", match.ErrStorageUnavailable, err), "%s %s on %s", op, r.key, r.store.Name())
}
