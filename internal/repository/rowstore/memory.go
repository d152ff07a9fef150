package rowstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemoryStore returns an empty in-memory row store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]Row)}
}

// ReadAll returns a copy of the table's rows in insertion order.
func (s *MemoryStore) ReadAll(_ context.Context, table string) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.tables[table]
	out := make([]Row, len(rows))
	for i, row := range rows {
		copied := make(Row, len(row))
		copy(copied, row)
		out[i] = copied
	}
	return out, nil
}

// Append adds a row to the end of the table.
func (s *MemoryStore) Append(_ context.Context, table string, row Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make(Row, len(row))
	copy(copied, row)
	s.tables[table] = append(s.tables[table], copied)
	return nil
}

// FindAndDelete removes the first row whose first column equals id.
func (s *MemoryStore) FindAndDelete(_ context.Context, table string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	for i, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == id {
			s.tables[table] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("table %s id %s: %w", table, id, ErrRowNotFound)
}

// FindAndUpdate overwrites one column of the first row whose first column
// equals id, growing the row if it is shorter than the target column.
func (s *MemoryStore) FindAndUpdate(_ context.Context, table string, id string, column int, value interface{}) error {
	if column < 0 {
		return fmt.Errorf("column index %d out of range for table %s", column, table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.tables[table]
	for i, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == id {
			for len(row) <= column {
				row = append(row, "")
			}
			row[column] = value
			s.tables[table][i] = row
			return nil
		}
	}
	return fmt.Errorf("table %s id %s: %w", table, id, ErrRowNotFound)
}
