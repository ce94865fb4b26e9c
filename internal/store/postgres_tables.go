package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresTables stores named tables in PostgreSQL, one row per table row
// with the cells kept as a text array.
type PostgresTables struct {
	db *sql.DB
}

// NewPostgresTables creates a new PostgresTables
func NewPostgresTables(db *sql.DB) *PostgresTables {
	return &PostgresTables{db: db}
}

// EnsureSchema creates the backing tables if they do not exist yet
func (s *PostgresTables) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS review_tables (
			name       TEXT PRIMARY KEY,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS review_rows (
			table_name TEXT NOT NULL REFERENCES review_tables(name) ON DELETE CASCADE,
			position   INTEGER NOT NULL,
			cells      TEXT[] NOT NULL,
			PRIMARY KEY (table_name, position)
		);
	`

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Ping checks the database connection
func (s *PostgresTables) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// ReadRows returns every row of the named table ordered by position
func (s *PostgresTables) ReadRows(ctx context.Context, name string) ([][]string, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM review_tables WHERE name = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up table %q: %w", name, err)
	}
	if !exists {
		return nil, fmt.Errorf("%q: %w", name, ErrTableNotFound)
	}

	query := `
		SELECT cells
		FROM review_rows
		WHERE table_name = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", name, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(pq.Array(&cells)); err != nil {
			return nil, fmt.Errorf("failed to scan row of %q: %w", name, err)
		}
		out = append(out, cells)
	}

	return out, rows.Err()
}

// ReplaceRows rewrites the whole table inside one transaction
func (s *PostgresTables) ReplaceRows(ctx context.Context, name string, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsertQuery := `
		INSERT INTO review_tables (name, updated_at)
		VALUES ($1, NOW())
		ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsertQuery, name); err != nil {
		return fmt.Errorf("failed to register table %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM review_rows WHERE table_name = $1`, name); err != nil {
		return fmt.Errorf("failed to clear table %q: %w", name, err)
	}

	if len(rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO review_rows (table_name, position, cells)
			VALUES ($1, $2, $3)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare row insert: %w", err)
		}
		defer stmt.Close()

		for i, row := range rows {
			if row == nil {
				row = []string{}
			}
			if _, err := stmt.ExecContext(ctx, name, i, pq.Array(row)); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", i, name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
