package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryTables is an in-process Tables implementation. ReadErr and WriteErr,
// when set, are returned by every read or write.
type MemoryTables struct {
	mu     sync.Mutex
	tables map[string][][]string
	writes int

	ReadErr  error
	WriteErr error
}

// NewMemoryTables creates an empty MemoryTables
func NewMemoryTables() *MemoryTables {
	return &MemoryTables{tables: make(map[string][][]string)}
}

// Ping always succeeds unless ReadErr is set
func (m *MemoryTables) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ReadErr
}

// ReadRows returns a copy of the named table
func (m *MemoryTables) ReadRows(ctx context.Context, name string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	rows, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrTableNotFound)
	}
	return copyRows(rows), nil
}

// ReplaceRows stores a copy of rows under name
func (m *MemoryTables) ReplaceRows(ctx context.Context, name string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteErr != nil {
		return m.WriteErr
	}
	stored := copyRows(rows)
	if stored == nil {
		stored = [][]string{}
	}
	m.tables[name] = stored
	m.writes++
	return nil
}

// Writes returns how many successful ReplaceRows calls were made
func (m *MemoryTables) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
