package repository

import (
	"context"

	"fittrack/internal/cache"
	"fittrack/internal/core"
	"fittrack/internal/remote"
)

// Preferences serves per-exercise user settings. Keys are exercise ids and
// follow the same normalization policy as the exercise repository.
type Preferences struct {
	col   *cache.Collection[core.ExercisePreference]
	clock cache.Clock
	r     refresher[core.ExercisePreference]
}

// NewPreferences creates the preference repository.
func NewPreferences(col *cache.Collection[core.ExercisePreference], source remote.Source, cfg Config) *Preferences {
	p := &Preferences{col: col, clock: cfg.clock()}
	p.r = refresher[core.ExercisePreference]{
		col:    col,
		maxAge: cfg.MaxAge,
		fetch: func(ctx context.Context) ([]core.ExercisePreference, error) {
			fetched, err := source.FetchPreferences(ctx)
			if err != nil {
				return nil, err
			}
			for i := range fetched {
				fetched[i].ExerciseID = core.NormalizeExerciseID(fetched[i].ExerciseID)
			}
			return fetched, nil
		},
	}
	return p
}

// Get returns the preference for an exercise id.
func (p *Preferences) Get(ctx context.Context, exerciseID string) (core.ExercisePreference, bool, error) {
	if err := p.r.refreshIfStale(ctx); err != nil {
		return core.ExercisePreference{}, false, err
	}
	return p.col.GetByID(ctx, core.NormalizeExerciseID(exerciseID))
}

// List returns all stored preferences.
func (p *Preferences) List(ctx context.Context) ([]core.ExercisePreference, error) {
	if err := p.r.refreshIfStale(ctx); err != nil {
		return nil, err
	}
	return p.col.GetAll(ctx)
}

// Save upserts a preference, stamping its update time.
func (p *Preferences) Save(ctx context.Context, pref core.ExercisePreference) error {
	pref.ExerciseID = core.NormalizeExerciseID(pref.ExerciseID)
	if pref.ExerciseID == "" {
		return core.NewValidationError("preference exercise id is required")
	}
	pref.UpdatedAt = p.clock()
	return p.col.Put(ctx, pref)
}

// Remove deletes the preference for an exercise id.
func (p *Preferences) Remove(ctx context.Context, exerciseID string) error {
	return p.col.Remove(ctx, core.NormalizeExerciseID(exerciseID))
}
