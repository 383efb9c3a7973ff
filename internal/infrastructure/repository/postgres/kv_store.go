package postgres

import (
	"context"
	"database/sql"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/league-scoreboard/internal/platform/querybuilder"
)

// KVStore keeps values in the kv_store table. Delete is a soft delete; a
// later Set revives the row.
type KVStore struct {
	db *sqlx.DB
}

func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Name() string {
	return "postgres"
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := qb.Select("*").From(kvTable).
		Where(qb.Eq("key", key), qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, crerr.Wrap(err, "build select kv query")
	}

	var row kvTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, crerr.Wrapf(err, "select kv %s", key)
	}

	return row.Value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := qb.InsertModel(kvTable, kvInsertModel{Key: key, Value: value}, `ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_at = NOW(), deleted_at = NULL`)
	if err != nil {
		return crerr.Wrap(err, "build upsert kv query")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "upsert kv %s", key)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	query, args, err := qb.Update(kvTable).
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("key", key), qb.IsNull("deleted_at")).
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build delete kv query")
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrapf(err, "delete kv %s", key)
	}
	return nil
}
