package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jjenkins/legreview/internal/model"
)

// DefaultUsersTable is the name of the reviewer identity table
const DefaultUsersTable = "Users"

// ErrReviewerExists is returned when adding a username that is already taken
var ErrReviewerExists = errors.New("reviewer already exists")

// UserStore reads the reviewer identity table
type UserStore struct {
	tables Tables
	name   string
}

// NewUserStore creates a new UserStore over the named table
func NewUserStore(tables Tables, name string) *UserStore {
	if name == "" {
		name = DefaultUsersTable
	}
	return &UserStore{tables: tables, name: name}
}

// List returns every reviewer row, trimmed
func (s *UserStore) List(ctx context.Context) ([]model.Reviewer, error) {
	rows, err := s.tables.ReadRows(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("failed to read reviewers table %q: %w", s.name, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	index := headerIndex(rows[0])
	userCol, ok := index[model.ColumnUsername]
	if !ok {
		return nil, fmt.Errorf("reviewers table %q has no %s column", s.name, model.ColumnUsername)
	}
	passCol, ok := index[model.ColumnPassword]
	if !ok {
		return nil, fmt.Errorf("reviewers table %q has no %s column", s.name, model.ColumnPassword)
	}

	var reviewers []model.Reviewer
	for _, row := range rows[1:] {
		username := strings.TrimSpace(cell(row, userCol))
		if username == "" {
			continue
		}
		reviewers = append(reviewers, model.Reviewer{
			Username: username,
			Password: strings.TrimSpace(cell(row, passCol)),
		})
	}

	return reviewers, nil
}

// Authenticate reports whether the trimmed credentials match a reviewer row.
// The first row with a matching username decides.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" {
		return false, nil
	}

	reviewers, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	for _, r := range reviewers {
		if r.Username == username {
			return r.Password == password, nil
		}
	}

	return false, nil
}

// Add appends a reviewer row, creating the table with its header if needed
func (s *UserStore) Add(ctx context.Context, r model.Reviewer) error {
	r.Username = strings.TrimSpace(r.Username)
	r.Password = strings.TrimSpace(r.Password)
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}

	rows, err := s.tables.ReadRows(ctx, s.name)
	if err != nil && !errors.Is(err, ErrTableNotFound) {
		return fmt.Errorf("failed to read reviewers table %q: %w", s.name, err)
	}
	if len(rows) == 0 {
		rows = [][]string{{model.ColumnUsername, model.ColumnPassword}}
	}

	index := headerIndex(rows[0])
	userCol, ok := index[model.ColumnUsername]
	if !ok {
		return fmt.Errorf("reviewers table %q has no %s column", s.name, model.ColumnUsername)
	}
	passCol, ok := index[model.ColumnPassword]
	if !ok {
		return fmt.Errorf("reviewers table %q has no %s column", s.name, model.ColumnPassword)
	}

	for _, row := range rows[1:] {
		if strings.TrimSpace(cell(row, userCol)) == r.Username {
			return fmt.Errorf("%s: %w", r.Username, ErrReviewerExists)
		}
	}

	row := make([]string, len(rows[0]))
	row[userCol] = r.Username
	row[passCol] = r.Password
	rows = append(rows, row)

	if err := s.tables.ReplaceRows(ctx, s.name, rows); err != nil {
		return fmt.Errorf("failed to save reviewers table %q: %w", s.name, err)
	}

	return nil
}
