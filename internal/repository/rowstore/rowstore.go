package rowstore

import (
	"context"
	"errors"
)

// Row is one spreadsheet row. By convention column 0 holds the record id.
type Row []interface{}

// ErrRowNotFound signals that a lookup by id matched no row. Callers must be
// able to tell this apart from a transport failure, so adapters return it
// (wrapped) instead of a generic error.
var ErrRowNotFound = errors.New("row not found")

// Store is the tabular row store the application persists through. Tables are
// identified by name; the adapter decides how names map onto the backend.
type Store interface {
	ReadAll(ctx context.Context, table string) ([]Row, error)
	Append(ctx context.Context, table string, row Row) error
	FindAndDelete(ctx context.Context, table string, id string) error
	FindAndUpdate(ctx context.Context, table string, id string, column int, value interface{}) error
}
