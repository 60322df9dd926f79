package repository

import (
	"context"

	"github.com/google/uuid"

	"fittrack/internal/cache"
	"fittrack/internal/core"
	"fittrack/internal/remote"
)

// Sessions serves logged workout sessions.
type Sessions struct {
	col   *cache.Collection[core.WorkoutSession]
	clock cache.Clock
	r     refresher[core.WorkoutSession]
}

// NewSessions creates the session repository.
func NewSessions(col *cache.Collection[core.WorkoutSession], source remote.Source, cfg Config) *Sessions {
	s := &Sessions{col: col, clock: cfg.clock()}
	s.r = refresher[core.WorkoutSession]{
		col:    col,
		maxAge: cfg.MaxAge,
		fetch:  source.FetchSessions,
	}
	return s
}

// Get returns the session for id.
func (s *Sessions) Get(ctx context.Context, id string) (core.WorkoutSession, bool, error) {
	if err := s.r.refreshIfStale(ctx); err != nil {
		return core.WorkoutSession{}, false, err
	}
	return s.col.GetByID(ctx, id)
}

// List returns all cached sessions.
func (s *Sessions) List(ctx context.Context) ([]core.WorkoutSession, error) {
	if err := s.r.refreshIfStale(ctx); err != nil {
		return nil, err
	}
	return s.col.GetAll(ctx)
}

// Start creates and stores a new session beginning now.
func (s *Sessions) Start(ctx context.Context, programID, cycleID string) (core.WorkoutSession, error) {
	session := core.WorkoutSession{
		ID:        uuid.NewString(),
		ProgramID: programID,
		CycleID:   cycleID,
		StartedAt: s.clock(),
	}
	if err := s.col.Put(ctx, session); err != nil {
		return core.WorkoutSession{}, err
	}
	return session, nil
}

// Save upserts a session.
func (s *Sessions) Save(ctx context.Context, session core.WorkoutSession) error {
	if session.ID == "" {
		return core.NewValidationError("session id is required")
	}
	return s.col.Put(ctx, session)
}

// Complete stamps the session's completion time.
func (s *Sessions) Complete(ctx context.Context, id string) (core.WorkoutSession, error) {
	session, ok, err := s.col.GetByID(ctx, id)
	if err != nil {
		return core.WorkoutSession{}, err
	}
	if !ok {
		return core.WorkoutSession{}, core.NewValidationError("session %s not found", id)
	}
	if session.CompletedAt != nil {
		return core.WorkoutSession{}, core.NewValidationError("session %s is already completed", id)
	}
	now := s.clock()
	session.CompletedAt = &now
	if err := s.col.Put(ctx, session); err != nil {
		return core.WorkoutSession{}, err
	}
	return session, nil
}

// Remove deletes a session by id.
func (s *Sessions) Remove(ctx context.Context, id string) error {
	return s.col.Remove(ctx, id)
}
