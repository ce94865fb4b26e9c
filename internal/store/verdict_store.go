package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jjenkins/legreview/internal/model"
)

// VerdictStore persists a reviewer's verdict log, one row per verdict.
// Every write replaces the whole table.
type VerdictStore struct {
	tables Tables
}

// NewVerdictStore creates a new VerdictStore
func NewVerdictStore(tables Tables) *VerdictStore {
	return &VerdictStore{tables: tables}
}

// ReadAll returns the stored verdicts in stored order
func (s *VerdictStore) ReadAll(ctx context.Context, reviewer string) ([]model.Verdict, error) {
	name := ReviewerTable(reviewer, ReviewTableSuffix)

	rows, err := s.tables.ReadRows(ctx, name)
	if errors.Is(err, ErrTableNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read verdicts for %s: %w", reviewer, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	index := headerIndex(rows[0])
	column := func(row []string, name string) string {
		if i, ok := index[name]; ok {
			return cell(row, i)
		}
		return ""
	}

	verdicts := make([]model.Verdict, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		v := model.Verdict{
			Timestamp: column(row, model.ColumnTimestamp),
			Reviewer:  column(row, model.ColumnReviewer),
			Dataset:   column(row, model.ColumnDataset),
			Outcome:   model.Outcome(column(row, model.ColumnOutcome)),
		}
		for _, key := range model.RecordFieldKeys {
			if value := column(row, string(key)); value != "" {
				v.Fields = append(v.Fields, model.Field{Key: key, Value: value})
			}
		}
		verdicts = append(verdicts, v)
	}

	return verdicts, nil
}

// WriteAll replaces the reviewer's verdict table with verdicts.
// An empty slice leaves the table cleared.
func (s *VerdictStore) WriteAll(ctx context.Context, reviewer string, verdicts []model.Verdict) error {
	var rows [][]string
	if len(verdicts) > 0 {
		rows = make([][]string, 0, len(verdicts)+1)
		rows = append(rows, model.VerdictHeader())
		for _, v := range verdicts {
			rows = append(rows, v.Row())
		}
	}

	name := ReviewerTable(reviewer, ReviewTableSuffix)
	if err := s.tables.ReplaceRows(ctx, name, rows); err != nil {
		return fmt.Errorf("failed to save %d verdicts for %s: %w", len(verdicts), reviewer, err)
	}

	return nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
