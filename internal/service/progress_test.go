package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRecordStore(t *testing.T) *RecordStore {
	t.Helper()
	dir := t.TempDir()
	writeDataset(t, dir, "four.json", `[{"Leg_Name":"a"},{"Leg_Name":"b"},{"Leg_Name":"c"},{"Leg_Name":"d"}]`)
	catalog, err := NewCatalog([]model.Dataset{
		{Label: "four", Path: "four.json"},
		{Label: "broken", Path: "broken.json"},
	}, dir)
	require.NoError(t, err)
	return NewRecordStore(catalog, NewDatasetParser())
}

func TestProgressService_Calculate(t *testing.T) {
	ctx := context.Background()
	tables := store.NewMemoryTables()
	records := newFileRecordStore(t)

	deps := newTestDeps(tables, records)
	w, err := OpenWorkflow(ctx, deps, "alice", "four")
	require.NoError(t, err)
	require.NoError(t, w.Confirm(ctx))
	require.NoError(t, w.BeginEdit())
	require.NoError(t, w.SubmitEdit(ctx, map[model.FieldKey]string{model.FieldAmendingLeg: "x"}))
	require.NoError(t, w.Confirm(ctx))

	progress, err := NewProgressService(records, deps.Cursors, deps.Verdicts).Calculate(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, 3, progress.Current)
	assert.Equal(t, 3, progress.MaxReached)
	assert.Equal(t, "2026-10-19 14:30:00", progress.LastUpdate)
	assert.Equal(t, 3, progress.Verdicts)
	assert.Equal(t, 2, progress.Accepted)
	assert.Equal(t, 1, progress.Corrected)
	assert.Equal(t, map[string]int{"four": 3}, progress.ByDataset)

	require.Len(t, progress.Datasets, 2)
	assert.Equal(t, 4, progress.Datasets[0].Total)
	assert.Equal(t, 3, progress.Datasets[0].Reviewed)
	assert.InDelta(t, 75.0, progress.Datasets[0].Percent, 0.001)
	assert.Error(t, progress.Datasets[1].Err)
}

func TestProgressService_ReportsReadFailures(t *testing.T) {
	tables := store.NewMemoryTables()
	tables.ReadErr = errors.New("offline")

	_, err := NewProgressService(newFileRecordStore(t), store.NewCursorStore(tables), store.NewVerdictStore(tables)).
		Calculate(context.Background(), "alice")

	assert.ErrorIs(t, err, tables.ReadErr)
}

func TestValidator_ValidateAll(t *testing.T) {
	stats, err := NewValidator(newFileRecordStore(t)).ValidateAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &ValidateStats{Total: 2, Loaded: 1, Failed: 1, Records: 4}, stats)
}

func TestValidator_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := NewValidator(newFileRecordStore(t)).ValidateAll(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.Loaded)
}
