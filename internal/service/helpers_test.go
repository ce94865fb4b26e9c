package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/store"
	"github.com/stretchr/testify/require"
)

// staticRecords serves fixed record sequences by label
type staticRecords map[string][]model.Record

func (s staticRecords) Load(label string) ([]model.Record, error) {
	records, ok := s[label]
	if !ok {
		return nil, ErrUnknownDataset
	}
	return records, nil
}

func threeRecords() []model.Record {
	return []model.Record{
		{Name: "Bylaw A", Number: "1", Year: "2001", AmendingLeg: "Bylaw Z"},
		{Name: "Bylaw B", Number: "2", Year: "2002", GazetteNumber: "77", Link: "http://b"},
		{Name: "Bylaw C", Number: "3", Year: "2003"},
	}
}

var fixedNow = time.Date(2026, 10, 19, 14, 30, 0, 0, time.Local)

func newTestDeps(tables store.Tables, records RecordSource) Deps {
	return Deps{
		Records:  records,
		Cursors:  store.NewCursorStore(tables),
		Verdicts: store.NewVerdictStore(tables),
		Now:      func() time.Time { return fixedNow },
	}
}

func writeDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
