package cmd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jjenkins/legreview/internal/config"
	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/store"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <reviewer>",
	Short: "Export a reviewer's verdicts as CSV",
	Long: `Export writes the reviewer's stored verdict log as CSV, with the same
columns as the verdict table.

Examples:
  ./legreview export alice > alice.csv
  ./legreview export alice --output alice.csv`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig(true)

	if err := export(cfg, args[0]); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
}

func export(cfg *config.Config, reviewer string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tables, closeTables, err := openTables(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to backend: %w", err)
	}
	defer closeTables()

	verdicts, err := store.NewVerdictStore(tables).ReadAll(ctx, reviewer)
	if err != nil {
		return fmt.Errorf("failed to read verdicts: %w", err)
	}

	if exportOutput == "" {
		return writeVerdictsCSV(os.Stdout, verdicts)
	}
	if err := exportVerdicts(exportOutput, verdicts); err != nil {
		return err
	}
	log.Printf("Exported %d verdicts to %s", len(verdicts), exportOutput)
	return nil
}

// exportVerdicts writes the CSV to path. A failed close is reported since
// buffered rows may not have reached the file.
func exportVerdicts(path string, verdicts []model.Verdict) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := writeVerdictsCSV(f, verdicts); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func writeVerdictsCSV(w io.Writer, verdicts []model.Verdict) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.VerdictHeader()); err != nil {
		return err
	}
	for _, v := range verdicts {
		if err := cw.Write(v.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
