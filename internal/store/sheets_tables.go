package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// New worksheets get the same grid size the legacy spreadsheet used
const (
	sheetRows    = 2000
	sheetColumns = 25
)

// SheetsTables stores each table as a worksheet of one Google spreadsheet
type SheetsTables struct {
	service       *sheets.Service
	spreadsheetID string

	mu     sync.Mutex
	titles map[string]bool
}

// NewSheetsTables creates a Sheets client for the given spreadsheet
func NewSheetsTables(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsTables, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}

	opts = append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, opts...)
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create client: %w", err)
	}

	return &SheetsTables{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Ping loads the worksheet list, which also verifies access to the spreadsheet
func (s *SheetsTables) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refreshTitles(ctx)
}

// ReadRows returns every used row of the worksheet
func (s *SheetsTables) ReadRows(ctx context.Context, name string) ([][]string, error) {
	exists, err := s.hasSheet(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%q: %w", name, ErrTableNotFound)
	}

	resp, err := s.getValues(ctx, name)
	if isRangeError(err) {
		// the worksheet may have been deleted outside the app
		s.forgetTitles()
		exists, herr := s.hasSheet(ctx, name)
		if herr != nil {
			return nil, herr
		}
		if !exists {
			return nil, fmt.Errorf("%q: %w", name, ErrTableNotFound)
		}
		resp, err = s.getValues(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to read %q: %w", name, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, values := range resp.Values {
		row := make([]string, len(values))
		for j, v := range values {
			row[j] = fmt.Sprint(v)
		}
		rows[i] = row
	}

	return rows, nil
}

// ReplaceRows clears the worksheet, adding it first if missing, then writes rows
func (s *SheetsTables) ReplaceRows(ctx context.Context, name string, rows [][]string) error {
	if err := s.ensureSheet(ctx, name); err != nil {
		return err
	}

	err := s.clearValues(ctx, name)
	if isRangeError(err) {
		s.forgetTitles()
		if err := s.ensureSheet(ctx, name); err != nil {
			return err
		}
		err = s.clearValues(ctx, name)
	}
	if err != nil {
		return fmt.Errorf("sheets: failed to clear %q: %w", name, err)
	}

	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, v := range row {
			values[i][j] = v
		}
	}

	_, err = s.service.Spreadsheets.Values.Update(s.spreadsheetID, sheetRange(name), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: failed to write %q: %w", name, err)
	}

	return nil
}

func (s *SheetsTables) hasSheet(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.titles == nil {
		if err := s.refreshTitles(ctx); err != nil {
			return false, err
		}
	}
	return s.titles[name], nil
}

func (s *SheetsTables) ensureSheet(ctx context.Context, name string) error {
	exists, err := s.hasSheet(ctx, name)
	if err != nil || exists {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: name,
					GridProperties: &sheets.GridProperties{
						RowCount:    sheetRows,
						ColumnCount: sheetColumns,
					},
				},
			},
		}},
	}

	if _, err := s.service.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: failed to add worksheet %q: %w", name, err)
	}

	s.mu.Lock()
	if s.titles != nil {
		s.titles[name] = true
	}
	s.mu.Unlock()

	return nil
}

func (s *SheetsTables) getValues(ctx context.Context, name string) (*sheets.ValueRange, error) {
	return s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange(name)).
		Context(ctx).
		Do()
}

func (s *SheetsTables) clearValues(ctx context.Context, name string) error {
	_, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, sheetRange(name), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

// forgetTitles drops the cached worksheet list so the next lookup reloads it
func (s *SheetsTables) forgetTitles() {
	s.mu.Lock()
	s.titles = nil
	s.mu.Unlock()
}

// isRangeError reports the 400 Sheets answers for a range naming a missing
// worksheet
func isRangeError(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusBadRequest
}

// refreshTitles must be called with s.mu held
func (s *SheetsTables) refreshTitles(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets: failed to open spreadsheet: %w", err)
	}

	titles := make(map[string]bool, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil {
			titles[sheet.Properties.Title] = true
		}
	}
	s.titles = titles

	return nil
}

// sheetRange quotes a worksheet title as an A1 range covering the whole sheet
func sheetRange(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
