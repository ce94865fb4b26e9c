package model

import "time"

// CursorTimeLayout is the last_update format stored with the cursor
const CursorTimeLayout = "2006-01-02 15:04:05"

// Cursor columns
const (
	ColumnCurrentIndex = "current_idx"
	ColumnMaxReached   = "max_reached"
	ColumnLastUpdate   = "last_update"
)

// Cursor marks the next record to show and the furthest index ever shown
type Cursor struct {
	Current    int
	MaxReached int
	UpdatedAt  time.Time
}

// Advance moves the cursor one record forward
func (c Cursor) Advance() Cursor {
	next := Cursor{Current: c.Current + 1, MaxReached: c.MaxReached}
	if next.Current > next.MaxReached {
		next.MaxReached = next.Current
	}
	return next
}

// Done reports whether every one of total records has been reviewed
func (c Cursor) Done(total int) bool {
	return c.Current >= total
}
