package service

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/store"
)

// Pacing holds the fixed delays inserted after remote writes to stay under
// the backing store's request-rate limit. They are not retries.
type Pacing struct {
	Cursor   time.Duration
	Verdicts time.Duration
}

func pause(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Cursor loads and saves a reviewer's position. Persistence is best-effort:
// read failures fall back to (0, 0) and write failures are only logged.
type Cursor struct {
	store     *store.CursorStore
	reviewer  string
	pacing    time.Duration
	now       func() time.Time
	errLogger *log.Logger
}

// NewCursor creates a new Cursor for reviewer
func NewCursor(cursors *store.CursorStore, reviewer string, pacing time.Duration, now func() time.Time) *Cursor {
	if now == nil {
		now = time.Now
	}
	return &Cursor{
		store:     cursors,
		reviewer:  reviewer,
		pacing:    pacing,
		now:       now,
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// Load returns the stored position, or (0, 0) when there is none
func (c *Cursor) Load(ctx context.Context) (current, maxReached int) {
	stored, err := c.store.Load(ctx, c.reviewer)
	if err != nil {
		c.errLogger.Printf("Failed to load cursor for %s, starting from 0: %v", c.reviewer, err)
		return 0, 0
	}
	if stored == nil {
		return 0, 0
	}
	return stored.Current, stored.MaxReached
}

// Save overwrites the stored position. Failures are logged and swallowed.
func (c *Cursor) Save(ctx context.Context, current, maxReached int) {
	err := c.store.Save(ctx, c.reviewer, model.Cursor{
		Current:    current,
		MaxReached: maxReached,
		UpdatedAt:  c.now(),
	})
	if err != nil {
		c.errLogger.Printf("Failed to save cursor (%d, %d) for %s: %v", current, maxReached, c.reviewer, err)
		return
	}
	pause(c.pacing)
}

// VerdictLog is a reviewer's ordered, append-only verdict sequence. Every
// append rewrites the whole remote table; the in-memory sequence is kept
// even when that write fails, so the next append persists it again.
type VerdictLog struct {
	store     *store.VerdictStore
	reviewer  string
	pacing    time.Duration
	entries   []model.Verdict
	errLogger *log.Logger
}

// NewVerdictLog creates an empty VerdictLog for reviewer
func NewVerdictLog(verdicts *store.VerdictStore, reviewer string, pacing time.Duration) *VerdictLog {
	return &VerdictLog{
		store:     verdicts,
		reviewer:  reviewer,
		pacing:    pacing,
		errLogger: log.New(os.Stderr, "ERROR: ", log.LstdFlags),
	}
}

// LoadAll replaces the in-memory log with the stored verdicts. A read
// failure is treated as having no prior verdicts.
func (l *VerdictLog) LoadAll(ctx context.Context) []model.Verdict {
	entries, err := l.store.ReadAll(ctx, l.reviewer)
	if err != nil {
		l.errLogger.Printf("Failed to load verdicts for %s, starting empty: %v", l.reviewer, err)
		entries = nil
	}
	l.entries = entries
	return l.Entries()
}

// Append adds v to the log and persists the entire log
func (l *VerdictLog) Append(ctx context.Context, v model.Verdict) error {
	l.entries = append(l.entries, v)
	return l.flush(ctx)
}

// Reset empties the log and overwrites the stored table with nothing
func (l *VerdictLog) Reset(ctx context.Context) error {
	l.entries = nil
	return l.flush(ctx)
}

// Entries returns a copy of the in-memory log
func (l *VerdictLog) Entries() []model.Verdict {
	return append([]model.Verdict(nil), l.entries...)
}

// Len returns the number of verdicts in memory
func (l *VerdictLog) Len() int {
	return len(l.entries)
}

func (l *VerdictLog) flush(ctx context.Context) error {
	if err := l.store.WriteAll(ctx, l.reviewer, l.entries); err != nil {
		return err
	}
	pause(l.pacing)
	return nil
}
