package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/store"
)

// State is the review workflow state
type State int

const (
	StatePresenting State = iota
	StateEditing
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StatePresenting:
		return "presenting"
	case StateEditing:
		return "editing"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrInvalidTransition is returned for an action the current state does not allow
var ErrInvalidTransition = errors.New("invalid transition")

// PersistError reports a verdict log write that failed after the decision
// was recorded in memory and the cursor moved on.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return "verdict log not saved: " + e.Err.Error()
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Deps are the collaborators a workflow needs
type Deps struct {
	Records  RecordSource
	Cursors  *store.CursorStore
	Verdicts *store.VerdictStore
	Pacing   Pacing
	Now      func() time.Time
}

// Workflow is one reviewer's session: the loaded records, the cursor, the
// verdict log and whether an edit is in progress. Actions are serialized.
type Workflow struct {
	mu sync.Mutex

	reviewer string
	dataset  string
	records  RecordSource
	items    []model.Record

	cursor   model.Cursor
	editing  bool
	progress *Cursor
	log      *VerdictLog
	now      func() time.Time
}

// View is a snapshot of the workflow for display
type View struct {
	State        State
	Reviewer     string
	Dataset      string
	Index        int
	Position     int
	Total        int
	MaxReached   int
	Percent      float64
	Record       model.Record
	VerdictCount int
}

// OpenWorkflow starts a session: the dataset is loaded (an error here is
// fatal for that selection), then the stored cursor and verdict log.
func OpenWorkflow(ctx context.Context, deps Deps, reviewer, dataset string) (*Workflow, error) {
	items, err := deps.Records.Load(dataset)
	if err != nil {
		return nil, err
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	w := &Workflow{
		reviewer: reviewer,
		dataset:  dataset,
		records:  deps.Records,
		items:    items,
		progress: NewCursor(deps.Cursors, reviewer, deps.Pacing.Cursor, now),
		log:      NewVerdictLog(deps.Verdicts, reviewer, deps.Pacing.Verdicts),
		now:      now,
	}

	current, maxReached := w.progress.Load(ctx)
	w.cursor = model.Cursor{Current: current, MaxReached: maxReached}
	w.log.LoadAll(ctx)

	return w, nil
}

// Reviewer returns the session's reviewer
func (w *Workflow) Reviewer() string {
	return w.reviewer
}

// State returns the current state
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state()
}

func (w *Workflow) state() State {
	switch {
	case w.cursor.Done(len(w.items)):
		return StateCompleted
	case w.editing:
		return StateEditing
	default:
		return StatePresenting
	}
}

// View returns what the reviewer should currently see
func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	total := len(w.items)
	v := View{
		State:        w.state(),
		Reviewer:     w.reviewer,
		Dataset:      w.dataset,
		Index:        w.cursor.Current,
		Total:        total,
		MaxReached:   w.cursor.MaxReached,
		VerdictCount: w.log.Len(),
	}

	if total > 0 {
		reviewed := w.cursor.Current
		if reviewed > total {
			reviewed = total
		}
		v.Percent = float64(reviewed) * 100 / float64(total)
	}
	if v.State != StateCompleted {
		v.Record = w.items[w.cursor.Current]
		v.Position = w.cursor.Current + 1
	}

	return v
}

// Cursor returns the in-memory cursor
func (w *Workflow) Cursor() model.Cursor {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

// Verdicts returns the session's verdicts in decision order
func (w *Workflow) Verdicts() []model.Verdict {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.log.Entries()
}

// Confirm accepts the presented record as is and moves to the next one
func (w *Workflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state() != StatePresenting {
		return fmt.Errorf("confirm while %s: %w", w.state(), ErrInvalidTransition)
	}

	return w.decide(ctx, model.OutcomeAccepted, w.items[w.cursor.Current])
}

// BeginEdit switches the presented record into editing. Nothing is persisted.
func (w *Workflow) BeginEdit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state() != StatePresenting {
		return fmt.Errorf("edit while %s: %w", w.state(), ErrInvalidTransition)
	}

	w.editing = true
	return nil
}

// SubmitEdit records the edited record, with overrides merged onto the
// original, and moves to the next one
func (w *Workflow) SubmitEdit(ctx context.Context, overrides map[model.FieldKey]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state() != StateEditing {
		return fmt.Errorf("submit while %s: %w", w.state(), ErrInvalidTransition)
	}

	corrected := w.items[w.cursor.Current].With(overrides)
	return w.decide(ctx, model.OutcomeCorrected, corrected)
}

// CancelEdit discards the edit and presents the same record again
func (w *Workflow) CancelEdit() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state() != StateEditing {
		return fmt.Errorf("cancel while %s: %w", w.state(), ErrInvalidTransition)
	}

	w.editing = false
	return nil
}

// Restart resets a completed review: the cursor goes back to (0, 0) and the
// verdict log is cleared locally and remotely.
func (w *Workflow) Restart(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state() != StateCompleted {
		return fmt.Errorf("restart while %s: %w", w.state(), ErrInvalidTransition)
	}

	w.cursor = model.Cursor{}
	w.editing = false
	w.progress.Save(ctx, 0, 0)

	if err := w.log.Reset(ctx); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}

// SelectDataset switches the session to another dataset. The cursor and
// verdict log are kept and any edit in progress is dropped.
func (w *Workflow) SelectDataset(label string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if label == w.dataset {
		return nil
	}

	items, err := w.records.Load(label)
	if err != nil {
		return err
	}

	w.dataset = label
	w.items = items
	w.editing = false
	return nil
}

// decide records a verdict, then advances and saves the cursor. A verdict
// log write failure is returned only after the cursor has moved.
func (w *Workflow) decide(ctx context.Context, outcome model.Outcome, record model.Record) error {
	verdict := model.Verdict{
		Timestamp: w.now().Format(model.VerdictTimeLayout),
		Reviewer:  w.reviewer,
		Dataset:   w.dataset,
		Outcome:   outcome,
		Fields:    record.NonEmptyFields(),
	}
	appendErr := w.log.Append(ctx, verdict)

	w.cursor = w.cursor.Advance()
	w.editing = false
	w.progress.Save(ctx, w.cursor.Current, w.cursor.MaxReached)

	if appendErr != nil {
		return &PersistError{Err: appendErr}
	}
	return nil
}
