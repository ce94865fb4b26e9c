package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jjenkins/legreview/internal/model"
)

// CursorStore persists a reviewer's cursor as a header row plus one data row
type CursorStore struct {
	tables Tables
}

// NewCursorStore creates a new CursorStore
func NewCursorStore(tables Tables) *CursorStore {
	return &CursorStore{tables: tables}
}

// Load returns the reviewer's stored cursor, or nil if none was saved.
// Only the last data row is authoritative.
func (s *CursorStore) Load(ctx context.Context, reviewer string) (*model.Cursor, error) {
	name := ReviewerTable(reviewer, ProgressTableSuffix)

	rows, err := s.tables.ReadRows(ctx, name)
	if errors.Is(err, ErrTableNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cursor for %s: %w", reviewer, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	index := headerIndex(rows[0])
	last := rows[len(rows)-1]

	col, ok := index[model.ColumnCurrentIndex]
	if !ok {
		return nil, fmt.Errorf("cursor table %q has no %s column", name, model.ColumnCurrentIndex)
	}
	current, err := parseIndex(cell(last, col))
	if err != nil {
		return nil, fmt.Errorf("invalid %s in %q: %w", model.ColumnCurrentIndex, name, err)
	}

	cursor := &model.Cursor{Current: current}

	if col, ok := index[model.ColumnMaxReached]; ok {
		maxReached, err := parseIndex(cell(last, col))
		if err != nil {
			return nil, fmt.Errorf("invalid %s in %q: %w", model.ColumnMaxReached, name, err)
		}
		cursor.MaxReached = maxReached
	}

	if col, ok := index[model.ColumnLastUpdate]; ok {
		if t, err := time.ParseInLocation(model.CursorTimeLayout, cell(last, col), time.Local); err == nil {
			cursor.UpdatedAt = t
		}
	}

	return cursor, nil
}

// Save overwrites the reviewer's cursor table with c
func (s *CursorStore) Save(ctx context.Context, reviewer string, c model.Cursor) error {
	rows := [][]string{
		{model.ColumnCurrentIndex, model.ColumnMaxReached, model.ColumnLastUpdate},
		{strconv.Itoa(c.Current), strconv.Itoa(c.MaxReached), c.UpdatedAt.Format(model.CursorTimeLayout)},
	}

	name := ReviewerTable(reviewer, ProgressTableSuffix)
	if err := s.tables.ReplaceRows(ctx, name, rows); err != nil {
		return fmt.Errorf("failed to save cursor for %s: %w", reviewer, err)
	}

	return nil
}

func parseIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative index %d", n)
	}
	return n, nil
}
