package store

import (
	"context"
	"errors"
	"strings"
)

// ErrTableNotFound is returned when a named table has never been written
var ErrTableNotFound = errors.New("table not found")

// Tables is a row store of named tables. Each table is a grid of string
// cells whose first row, when present, is the header.
//
// Writes are full snapshots: ReplaceRows clears the table and writes every
// row again, so a reader never sees a partially updated table.
type Tables interface {
	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error

	// ReadRows returns every row of the table in stored order
	ReadRows(ctx context.Context, name string) ([][]string, error)

	// ReplaceRows clears the table, creating it if needed, then writes rows
	ReplaceRows(ctx context.Context, name string, rows [][]string) error
}

// Per-reviewer table suffixes, matching the legacy spreadsheet layout
const (
	ReviewTableSuffix   = "مراجعة"
	ProgressTableSuffix = "تقدم"
)

// ReviewerTable returns the name of a reviewer's table, e.g. "alice_تقدم"
func ReviewerTable(reviewer, suffix string) string {
	return strings.TrimSpace(reviewer) + "_" + suffix
}

// headerIndex maps trimmed header names to their column index
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

// cell returns row[i], or "" if the row is shorter than i+1
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// copyRows deep-copies a row grid
func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
