package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// newContainerTables starts a throwaway PostgreSQL and returns tables with
// the schema in place. The test is skipped when Docker is unavailable.
func newContainerTables(t *testing.T) *PostgresTables {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("legreview"),
		postgres.WithUsername("legreview"),
		postgres.WithPassword("legreview"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := NewDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tables := NewPostgresTables(db)
	require.NoError(t, tables.EnsureSchema(ctx))
	require.NoError(t, tables.EnsureSchema(ctx), "schema creation is repeatable")
	return tables
}

func TestPostgresTables(t *testing.T) {
	tables := newContainerTables(t)
	ctx := t.Context()

	t.Run("missing table", func(t *testing.T) {
		_, err := tables.ReadRows(ctx, "never_written")
		assert.ErrorIs(t, err, ErrTableNotFound)
	})

	t.Run("round trip keeps row order", func(t *testing.T) {
		rows := [][]string{
			{"تاريخ", "المستخدم", "الحالة"},
			{"2026-10-19 14:30", "alice", "accepted"},
			{"", "bob, \"quoted\"", "{braces}"},
			{},
			{"last"},
		}
		for i := 0; i < 20; i++ {
			rows = append(rows, []string{"row", string(rune('a' + i))})
		}
		require.NoError(t, tables.ReplaceRows(ctx, "verdicts_alice", rows))

		got, err := tables.ReadRows(ctx, "verdicts_alice")
		require.NoError(t, err)
		require.Len(t, got, len(rows))
		for i := range rows {
			if len(rows[i]) == 0 {
				assert.Empty(t, got[i], "row %d", i)
				continue
			}
			assert.Equal(t, rows[i], got[i], "row %d", i)
		}
	})

	t.Run("replace overwrites previous rows", func(t *testing.T) {
		require.NoError(t, tables.ReplaceRows(ctx, "cursor", [][]string{{"a"}, {"b"}, {"c"}}))
		require.NoError(t, tables.ReplaceRows(ctx, "cursor", [][]string{{"z"}}))

		got, err := tables.ReadRows(ctx, "cursor")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"z"}}, got)
	})

	t.Run("replace with empty clears table", func(t *testing.T) {
		require.NoError(t, tables.ReplaceRows(ctx, "to_clear", [][]string{{"h"}, {"v"}}))
		require.NoError(t, tables.ReplaceRows(ctx, "to_clear", nil))

		got, err := tables.ReadRows(ctx, "to_clear")
		require.NoError(t, err, "a cleared table still exists")
		assert.Empty(t, got)
	})

	t.Run("tables are independent", func(t *testing.T) {
		require.NoError(t, tables.ReplaceRows(ctx, "one", [][]string{{"1"}}))
		require.NoError(t, tables.ReplaceRows(ctx, "two", [][]string{{"2"}}))
		require.NoError(t, tables.ReplaceRows(ctx, "one", nil))

		got, err := tables.ReadRows(ctx, "two")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"2"}}, got)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, tables.Ping(ctx))
	})
}
