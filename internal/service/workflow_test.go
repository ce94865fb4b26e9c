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

func openTestWorkflow(t *testing.T, tables store.Tables, records RecordSource) *Workflow {
	t.Helper()
	w, err := OpenWorkflow(context.Background(), newTestDeps(tables, records), "alice", "d1")
	require.NoError(t, err)
	return w
}

func TestWorkflow_FullReviewScenario(t *testing.T) {
	ctx := context.Background()
	tables := store.NewMemoryTables()
	w := openTestWorkflow(t, tables, staticRecords{"d1": threeRecords()})

	require.Equal(t, StatePresenting, w.State())
	assert.Equal(t, 0, w.View().Index)

	// confirm record 0
	require.NoError(t, w.Confirm(ctx))
	assert.Len(t, w.Verdicts(), 1)
	assert.Equal(t, 1, w.Cursor().Current)

	// edit record 1, changing only the amendment number
	require.NoError(t, w.BeginEdit())
	require.Equal(t, StateEditing, w.State())
	require.NoError(t, w.SubmitEdit(ctx, map[model.FieldKey]string{model.FieldAmendingNumber: "99"}))
	assert.Len(t, w.Verdicts(), 2)
	assert.Equal(t, 2, w.Cursor().Current)

	second := w.Verdicts()[1]
	assert.Equal(t, model.OutcomeCorrected, second.Outcome)
	original := threeRecords()[1]
	assert.Equal(t, "99", second.Value(model.FieldAmendingNumber))
	for _, f := range original.NonEmptyFields() {
		assert.Equal(t, f.Value, second.Value(f.Key), "field %s must keep its original value", f.Key)
	}

	// confirm record 2
	require.NoError(t, w.Confirm(ctx))
	assert.Len(t, w.Verdicts(), 3)
	assert.Equal(t, 3, w.Cursor().Current)
	assert.Equal(t, StateCompleted, w.State())

	view := w.View()
	assert.Equal(t, StateCompleted, view.State)
	assert.InDelta(t, 100.0, view.Percent, 0.001)
	assert.Equal(t, 3, view.VerdictCount)

	// everything is persisted and reads back in order
	stored, err := store.NewVerdictStore(tables).ReadAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, []model.Outcome{model.OutcomeAccepted, model.OutcomeCorrected, model.OutcomeAccepted},
		[]model.Outcome{stored[0].Outcome, stored[1].Outcome, stored[2].Outcome})
	assert.Equal(t, "Bylaw A", stored[0].Value(model.FieldName))
	assert.Equal(t, "d1", stored[0].Dataset)
	assert.Equal(t, "alice", stored[0].Reviewer)
	assert.Equal(t, "2026-10-19 14:30", stored[0].Timestamp)

	cursor, err := store.NewCursorStore(tables).Load(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, 3, cursor.Current)
	assert.Equal(t, 3, cursor.MaxReached)

	// restart after completion
	require.NoError(t, w.Restart(ctx))
	assert.Equal(t, StatePresenting, w.State())
	assert.Equal(t, model.Cursor{}, w.Cursor())
	assert.Empty(t, w.Verdicts())
	assert.Equal(t, 0, w.View().Index)

	stored, err = store.NewVerdictStore(tables).ReadAll(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, stored)

	cursor, err = store.NewCursorStore(tables).Load(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, cursor)
	assert.Equal(t, 0, cursor.Current)
	assert.Equal(t, 0, cursor.MaxReached)
}

func TestWorkflow_CancelEditChangesNothing(t *testing.T) {
	ctx := context.Background()
	tables := store.NewMemoryTables()
	w := openTestWorkflow(t, tables, staticRecords{"d1": threeRecords()})
	require.NoError(t, w.Confirm(ctx))
	writes := tables.Writes()

	require.NoError(t, w.BeginEdit())
	require.NoError(t, w.CancelEdit())

	assert.Equal(t, StatePresenting, w.State())
	assert.Equal(t, 1, w.Cursor().Current)
	assert.Len(t, w.Verdicts(), 1)
	assert.Equal(t, writes, tables.Writes(), "cancel must not persist anything")
}

func TestWorkflow_ResumesFromStoredState(t *testing.T) {
	ctx := context.Background()
	tables := store.NewMemoryTables()
	records := staticRecords{"d1": threeRecords()}

	first := openTestWorkflow(t, tables, records)
	require.NoError(t, first.Confirm(ctx))
	require.NoError(t, first.Confirm(ctx))

	resumed := openTestWorkflow(t, tables, records)
	assert.Equal(t, 2, resumed.Cursor().Current)
	assert.Len(t, resumed.Verdicts(), 2)
	assert.Equal(t, "Bylaw C", resumed.View().Record.Name)
}

func TestWorkflow_StartsCompletedWhenCursorPastEnd(t *testing.T) {
	ctx := context.Background()
	tables := store.NewMemoryTables()
	require.NoError(t, store.NewCursorStore(tables).Save(ctx, "alice", model.Cursor{Current: 5, MaxReached: 5}))

	w := openTestWorkflow(t, tables, staticRecords{"d1": threeRecords()})

	assert.Equal(t, StateCompleted, w.State())
	view := w.View()
	assert.Equal(t, 0, view.Position)
	assert.InDelta(t, 100.0, view.Percent, 0.001)
}

func TestWorkflow_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	w := openTestWorkflow(t, store.NewMemoryTables(), staticRecords{"d1": threeRecords()[:1]})

	assert.ErrorIs(t, w.SubmitEdit(ctx, nil), ErrInvalidTransition)
	assert.ErrorIs(t, w.CancelEdit(), ErrInvalidTransition)
	assert.ErrorIs(t, w.Restart(ctx), ErrInvalidTransition)

	require.NoError(t, w.BeginEdit())
	assert.ErrorIs(t, w.Confirm(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, w.BeginEdit(), ErrInvalidTransition)
	require.NoError(t, w.SubmitEdit(ctx, nil))

	require.Equal(t, StateCompleted, w.State())
	assert.ErrorIs(t, w.Confirm(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, w.BeginEdit(), ErrInvalidTransition)
	assert.Len(t, w.Verdicts(), 1)
}

func TestWorkflow_ReadFailuresDefaultToEmpty(t *testing.T) {
	tables := store.NewMemoryTables()
	tables.ReadErr = errors.New("backend down")

	w := openTestWorkflow(t, tables, staticRecords{"d1": threeRecords()})

	assert.Equal(t, model.Cursor{}, w.Cursor())
	assert.Empty(t, w.Verdicts())
	assert.Equal(t, StatePresenting, w.State())
}

func TestWorkflow_VerdictWriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	tables := store.NewMemoryTables()
	w := openTestWorkflow(t, tables, staticRecords{"d1": threeRecords()})

	tables.WriteErr = errors.New("quota exceeded")
	err := w.Confirm(ctx)

	var persistErr *PersistError
	require.ErrorAs(t, err, &persistErr)
	assert.ErrorIs(t, err, tables.WriteErr)
	assert.Len(t, w.Verdicts(), 1, "in-memory append survives the failed write")
	assert.Equal(t, 1, w.Cursor().Current)

	// the next successful append persists the whole log
	tables.WriteErr = nil
	require.NoError(t, w.Confirm(ctx))

	stored, err := store.NewVerdictStore(tables).ReadAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Bylaw A", stored[0].Value(model.FieldName))
	assert.Equal(t, "Bylaw B", stored[1].Value(model.FieldName))
}

func TestWorkflow_EmptyDatasetRestartStaysCompleted(t *testing.T) {
	ctx := context.Background()
	w := openTestWorkflow(t, store.NewMemoryTables(), staticRecords{"d1": nil})

	require.Equal(t, StateCompleted, w.State())
	require.NoError(t, w.Restart(ctx))
	assert.Equal(t, StateCompleted, w.State())
	assert.Zero(t, w.View().Percent)
}

func TestWorkflow_SelectDataset(t *testing.T) {
	ctx := context.Background()
	records := staticRecords{
		"d1": threeRecords(),
		"d2": {{Name: "Other 1"}, {Name: "Other 2"}},
	}
	w := openTestWorkflow(t, store.NewMemoryTables(), records)
	require.NoError(t, w.Confirm(ctx))
	require.NoError(t, w.BeginEdit())

	require.NoError(t, w.SelectDataset("d2"))

	view := w.View()
	assert.Equal(t, StatePresenting, view.State, "switching drops the edit")
	assert.Equal(t, "d2", view.Dataset)
	assert.Equal(t, "Other 2", view.Record.Name)
	assert.Equal(t, 2, view.Total)
	assert.InDelta(t, 50.0, view.Percent, 0.001)

	assert.ErrorIs(t, w.SelectDataset("missing"), ErrUnknownDataset)
	assert.Equal(t, "d2", w.View().Dataset)
}

func TestWorkflow_OpenFailsOnBadDataset(t *testing.T) {
	_, err := OpenWorkflow(context.Background(), newTestDeps(store.NewMemoryTables(), staticRecords{}), "alice", "nope")
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestWorkflow_ViewProgress(t *testing.T) {
	ctx := context.Background()
	w := openTestWorkflow(t, store.NewMemoryTables(), staticRecords{"d1": threeRecords()})
	require.NoError(t, w.Confirm(ctx))

	view := w.View()
	assert.Equal(t, "alice", view.Reviewer)
	assert.Equal(t, 1, view.Index)
	assert.Equal(t, 2, view.Position)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 1, view.MaxReached)
	assert.InDelta(t, 33.333, view.Percent, 0.01)
	assert.Equal(t, "Bylaw B", view.Record.Name)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "presenting", StatePresenting.String())
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "State(9)", State(9).String())
}
