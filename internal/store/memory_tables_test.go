package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTables_ReplaceIsolatesCallerSlices(t *testing.T) {
	m := NewMemoryTables()
	ctx := context.Background()

	rows := [][]string{{"h"}, {"v"}}
	require.NoError(t, m.ReplaceRows(ctx, "t", rows))
	rows[1][0] = "mutated"

	got, err := m.ReadRows(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"h"}, {"v"}}, got)

	got[0][0] = "mutated"
	again, err := m.ReadRows(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, "h", again[0][0])
	assert.Equal(t, 1, m.Writes())
}

func TestMemoryTables_MissingTable(t *testing.T) {
	_, err := NewMemoryTables().ReadRows(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestReviewerTable(t *testing.T) {
	assert.Equal(t, "alice_تقدم", ReviewerTable(" alice ", ProgressTableSuffix))
	assert.Equal(t, "alice_مراجعة", ReviewerTable("alice", ReviewTableSuffix))
}
