package match

import "context"

// Repository persists the whole match log as one unit.
type Repository interface {
	Load(ctx context.Context) ([]Record, error)
	Save(ctx context.Context, records []Record) error
	Clear(ctx context.Context) error
}
