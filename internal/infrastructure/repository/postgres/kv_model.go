package postgres

import (
	"time"
)

const kvTable = "kv_store"

type kvTableModel struct {
	Key       string     `db:"key"`
	Value     []byte     `db:"value"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type kvInsertModel struct {
	Key   string `db:"key"`
	Value []byte `db:"value"`
}
