package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jjenkins/legreview/internal/config"
	"github.com/jjenkins/legreview/internal/service"
	"github.com/jjenkins/legreview/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

var (
	cfgFile string
	envFile string
	v       = newViper()
)

var rootCmd = &cobra.Command{
	Use:   "legreview",
	Short: "Review and correct legislative records",
	Long: `legreview serves a web workflow in which signed-in reviewers walk
through extracted bylaw records one at a time, accepting each as is or
correcting it. Decisions and progress are stored per reviewer in a Google
spreadsheet or in PostgreSQL.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newViper runs during package initialization so every command's init can
// bind flags to it
func newViper() *viper.Viper {
	v, err := config.New()
	if err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	return v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./legreview.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load if present")
	rootCmd.PersistentFlags().String("backend", "", "Storage backend (sheets or postgres)")
	if err := v.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend")); err != nil {
		log.Fatalf("Failed to bind flag: %v", err)
	}
}

// loadConfig reads the configuration or exits. Backend settings are only
// checked when withBackend is set.
func loadConfig(withBackend bool) *config.Config {
	if err := config.LoadDotEnv(envFile); err != nil {
		log.Fatalf("Failed to load environment file: %v", err)
	}

	load := config.Decode
	if withBackend {
		load = config.Load
	}

	cfg, err := load(v, cfgFile)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// openTables connects to the configured backend. The returned func releases it.
func openTables(ctx context.Context, cfg *config.Config) (store.Tables, func(), error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		tables := store.NewPostgresTables(db)
		if err := tables.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return tables, func() { db.Close() }, nil

	case config.BackendSheets:
		var opts []option.ClientOption
		if cfg.Sheets.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Sheets.CredentialsFile))
		}
		tables, err := store.NewSheetsTables(ctx, cfg.Sheets.SpreadsheetID, opts...)
		if err != nil {
			return nil, nil, err
		}
		return tables, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// loadCatalog returns the configured dataset catalog, or the built-in one
func loadCatalog(cfg *config.Config) (*service.Catalog, error) {
	if cfg.DatasetsFile == "" {
		return service.DefaultCatalog(cfg.DataDir), nil
	}
	return service.LoadCatalog(cfg.DatasetsFile, cfg.DataDir)
}

func newRecordStore(cfg *config.Config) *service.RecordStore {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset catalog: %v", err)
	}
	return service.NewRecordStore(catalog, service.NewDatasetParser())
}
