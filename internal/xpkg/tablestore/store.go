// Package tablestore is the client side of the hosted table service: a small
// per-table CRUD contract with a Postgres adapter and an in-memory adapter.
package tablestore

import (
	"context"
	"errors"
)

// Table names provisioned by schema.sql.
const (
	Products    = "products"
	Orders      = "orders"
	Promotions  = "promotions"
	AppSettings = "app_settings"
)

var (
	// ErrTableMissing is returned when the backend has not provisioned the table.
	ErrTableMissing = errors.New("table missing")
	// ErrDuplicateKey is returned when an insert reuses an existing primary key.
	ErrDuplicateKey = errors.New("duplicate key")
	ErrEmptyRow     = errors.New("row has no columns")
	ErrNoFilter     = errors.New("update needs at least one filter")
)

// Row is a single record keyed by column name. Values read back from a store are
// JSON-shaped: numbers are float64, nested documents are map[string]any / []any,
// timestamps are RFC 3339 strings.
type Row map[string]any

// Eq selects rows whose Column equals Value.
type Eq struct {
	Column string
	Value  any
}

// Order sorts a select by Column.
type Order struct {
	Column string
	Desc   bool
}

type TableStore interface {
	SelectAll(ctx context.Context, table string, order ...Order) ([]Row, error)
	Select(ctx context.Context, table string, where Eq) ([]Row, error)
	Insert(ctx context.Context, table string, rows ...Row) error
	// Update sets values on the rows matching every filter in where.
	Update(ctx context.Context, table string, values Row, where ...Eq) (int64, error)
	Delete(ctx context.Context, table string, where Eq) (int64, error)
	Count(ctx context.Context, table string) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsTableMissing reports whether err means the table is not provisioned.
func IsTableMissing(err error) bool {
	return errors.Is(err, ErrTableMissing)
}
