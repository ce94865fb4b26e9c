package service

import (
	"context"
	"log"
	"os"
)

// ValidateStats tracks dataset validation statistics
type ValidateStats struct {
	Total   int
	Loaded  int
	Failed  int
	Records int
}

// Validator loads every catalog dataset the way a review session would,
// so broken files are found before a reviewer selects them
type Validator struct {
	records   *RecordStore
	logger    *log.Logger
	errLogger *log.Logger
}

// NewValidator creates a new Validator
func NewValidator(records *RecordStore) *Validator {
	return &Validator{
		records:   records,
		logger:    log.New(os.Stdout, "", log.LstdFlags),
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// ValidateAll loads each dataset and counts its records
func (v *Validator) ValidateAll(ctx context.Context) (*ValidateStats, error) {
	datasets := v.records.Catalog().Datasets()
	stats := &ValidateStats{Total: len(datasets)}

	for idx, d := range datasets {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		v.logger.Printf("[%d/%d] Loading %s (%s, %s)...", idx+1, stats.Total, d.Label, d.Path, d.Variant)

		records, err := v.records.Load(d.Label)
		if err != nil {
			v.errLogger.Printf("Failed to load %s: %v", d.Label, err)
			stats.Failed++
			continue
		}

		withAmendment := 0
		for _, r := range records {
			if r.AmendingLeg != "" {
				withAmendment++
			}
		}

		v.logger.Printf("  %d records, %d with amending legislation", len(records), withAmendment)
		stats.Loaded++
		stats.Records += len(records)
	}

	return stats, nil
}

// PrintSummary prints validation statistics
func (v *Validator) PrintSummary(stats *ValidateStats) {
	v.logger.Println("")
	v.logger.Println("=== Dataset Summary ===")
	v.logger.Printf("Datasets: %d", stats.Total)
	v.logger.Printf("Loaded:   %d", stats.Loaded)
	v.logger.Printf("Failed:   %d", stats.Failed)
	v.logger.Printf("Records:  %d", stats.Records)
}
