package service

import (
	"context"
	"sync"
)

// Sessions keeps one open workflow per signed-in reviewer. Every browser
// session of a reviewer shares it.
type Sessions struct {
	deps Deps

	mu   sync.Mutex
	open map[string]*Workflow
}

// NewSessions creates an empty registry
func NewSessions(deps Deps) *Sessions {
	return &Sessions{
		deps: deps,
		open: make(map[string]*Workflow),
	}
}

// Open returns the workflow of reviewer, starting one on dataset if none is
// open yet. Starting a workflow loads the stored cursor and verdict log.
func (s *Sessions) Open(ctx context.Context, reviewer, dataset string) (*Workflow, error) {
	if w, ok := s.Get(reviewer); ok {
		return w, nil
	}

	// load without holding the lock, then recheck before inserting
	w, err := OpenWorkflow(ctx, s.deps, reviewer, dataset)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.open[reviewer]; ok {
		return existing, nil
	}
	s.open[reviewer] = w
	return w, nil
}

// Get returns the open workflow of reviewer
func (s *Sessions) Get(reviewer string) (*Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.open[reviewer]
	return w, ok
}

// Close forgets the workflow of reviewer. Nothing needs flushing: every
// action has already persisted its changes.
func (s *Sessions) Close(reviewer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.open, reviewer)
}

// Len returns the number of open workflows
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.open)
}
