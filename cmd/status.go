package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jjenkins/legreview/internal/service"
	"github.com/jjenkins/legreview/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [reviewer...]",
	Short: "Show stored review progress",
	Long: `Status prints each reviewer's stored cursor and verdict counts, and how
far the cursor reaches into every catalog dataset. With no arguments every
reviewer in the users table is listed.`,
	Run: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig(true)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tables, closeTables, err := openTables(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to backend: %v", err)
	}
	defer closeTables()

	reviewers := args
	if len(reviewers) == 0 {
		list, err := store.NewUserStore(tables, cfg.UsersTable).List(ctx)
		if err != nil {
			log.Fatalf("Failed to read users table: %v", err)
		}
		for _, r := range list {
			reviewers = append(reviewers, r.Username)
		}
	}

	progress := service.NewProgressService(newRecordStore(cfg), store.NewCursorStore(tables), store.NewVerdictStore(tables))

	failed := false
	for _, reviewer := range reviewers {
		p, err := progress.Calculate(ctx, reviewer)
		if err != nil {
			log.Printf("ERROR: %s: %v", reviewer, err)
			failed = true
			continue
		}
		printProgress(p)
	}

	if failed {
		os.Exit(1)
	}
}

func printProgress(p *service.ReviewerProgress) {
	fmt.Printf("=== %s ===\n", p.Reviewer)
	fmt.Printf("Cursor:      %d (max %d)\n", p.Current, p.MaxReached)
	if p.LastUpdate != "" {
		fmt.Printf("Last update: %s\n", p.LastUpdate)
	}
	fmt.Printf("Verdicts:    %d (%d accepted, %d corrected)\n", p.Verdicts, p.Accepted, p.Corrected)
	for _, d := range p.Datasets {
		if d.Err != nil {
			fmt.Printf("  %-12s unavailable: %v\n", d.Label, d.Err)
			continue
		}
		fmt.Printf("  %-12s %d/%d (%.1f%%), %d verdicts\n", d.Label, d.Reviewed, d.Total, d.Percent, p.ByDataset[d.Label])
	}
	fmt.Println()
}
