package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LEGREVIEW_SHEETS_SPREADSHEET_ID", "sheet-123")
	t.Setenv("PORT", "9090")
	t.Setenv("LEGREVIEW_PACING_CURSOR", "250ms")

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, BackendSheets, cfg.Backend)
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Pacing.Cursor)
	assert.Equal(t, time.Second, cfg.Pacing.Verdicts)
	assert.Equal(t, "Users", cfg.UsersTable)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legreview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend: postgres
database_url: postgres://u:p@db:5432/review
datasets_file: datasets.yaml
pacing:
  verdicts: 0s
`), 0o644))

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://u:p@db:5432/review", cfg.DatabaseURL)
	assert.Equal(t, "datasets.yaml", cfg.DatasetsFile)
	assert.Zero(t, cfg.Pacing.Verdicts)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	_, err = Load(v, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sheets ok", Config{Backend: BackendSheets, Sheets: SheetsConfig{SpreadsheetID: "x"}}, false},
		{"sheets without id", Config{Backend: BackendSheets}, true},
		{"postgres ok", Config{Backend: BackendPostgres, DatabaseURL: "postgres://"}, false},
		{"postgres without url", Config{Backend: BackendPostgres}, true},
		{"unknown backend", Config{Backend: "excel"}, true},
		{"negative pacing", Config{Backend: BackendPostgres, DatabaseURL: "x", Pacing: PacingConfig{Cursor: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEGREVIEW_TEST_DOTENV=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("LEGREVIEW_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(envFile, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("LEGREVIEW_TEST_DOTENV"))
}

func TestDecode_SkipsBackendChecks(t *testing.T) {
	t.Setenv("LEGREVIEW_SHEETS_SPREADSHEET_ID", "")
	t.Setenv("LEGREVIEW_DATA_DIR", "/srv/data")

	v, err := New()
	require.NoError(t, err)

	_, err = Load(v, "")
	require.Error(t, err)

	cfg, err := Decode(v, "")
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", cfg.DataDir)
}
