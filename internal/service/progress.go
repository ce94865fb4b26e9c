package service

import (
	"context"
	"fmt"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/store"
)

// ProgressService summarizes a reviewer's stored progress
type ProgressService struct {
	records  *RecordStore
	cursors  *store.CursorStore
	verdicts *store.VerdictStore
}

// NewProgressService creates a new ProgressService
func NewProgressService(records *RecordStore, cursors *store.CursorStore, verdicts *store.VerdictStore) *ProgressService {
	return &ProgressService{records: records, cursors: cursors, verdicts: verdicts}
}

// ReviewerProgress is the stored state of one reviewer
type ReviewerProgress struct {
	Reviewer   string
	Current    int
	MaxReached int
	LastUpdate string
	Verdicts   int
	Accepted   int
	Corrected  int
	ByDataset  map[string]int
	Datasets   []DatasetProgress
}

// DatasetProgress is the reviewer's cursor measured against one dataset
type DatasetProgress struct {
	Label    string
	Total    int
	Reviewed int
	Percent  float64
	Err      error
}

// Calculate reads the reviewer's cursor and verdicts and measures them
// against every catalog dataset. Unlike a review session, read failures
// here are reported.
func (p *ProgressService) Calculate(ctx context.Context, reviewer string) (*ReviewerProgress, error) {
	progress := &ReviewerProgress{
		Reviewer:  reviewer,
		ByDataset: make(map[string]int),
	}

	cursor, err := p.cursors.Load(ctx, reviewer)
	if err != nil {
		return nil, fmt.Errorf("failed to load cursor: %w", err)
	}
	if cursor != nil {
		progress.Current = cursor.Current
		progress.MaxReached = cursor.MaxReached
		if !cursor.UpdatedAt.IsZero() {
			progress.LastUpdate = cursor.UpdatedAt.Format(model.CursorTimeLayout)
		}
	}

	verdicts, err := p.verdicts.ReadAll(ctx, reviewer)
	if err != nil {
		return nil, fmt.Errorf("failed to load verdicts: %w", err)
	}
	progress.Verdicts = len(verdicts)
	for _, v := range verdicts {
		switch v.Outcome {
		case model.OutcomeAccepted:
			progress.Accepted++
		case model.OutcomeCorrected:
			progress.Corrected++
		}
		progress.ByDataset[v.Dataset]++
	}

	for _, d := range p.records.Catalog().Datasets() {
		dp := DatasetProgress{Label: d.Label}

		records, err := p.records.Load(d.Label)
		if err != nil {
			dp.Err = err
			progress.Datasets = append(progress.Datasets, dp)
			continue
		}

		dp.Total = len(records)
		dp.Reviewed = min(progress.Current, dp.Total)
		if dp.Total > 0 {
			dp.Percent = float64(dp.Reviewed) * 100 / float64(dp.Total)
		}
		progress.Datasets = append(progress.Datasets, dp)
	}

	return progress, nil
}
