package repository

import (
	"context"

	"fittrack/internal/cache"
	"fittrack/internal/catalog"
	"fittrack/internal/core"
	"fittrack/internal/remote"
)

// Exercises serves built-in and user-defined exercises. Built-ins come from
// the compiled/seeded catalog and are never cached; custom exercises live in
// the custom_exercises collection.
//
// This repository owns the exercise id normalization policy: every id is
// folded before it reaches the cache, on reads and writes alike. The cache
// itself is exact-match only.
type Exercises struct {
	catalog *catalog.Catalog
	custom  *cache.Collection[core.Exercise]
	r       refresher[core.Exercise]
}

// NewExercises creates the exercise repository.
func NewExercises(cat *catalog.Catalog, custom *cache.Collection[core.Exercise], source remote.Source, cfg Config) *Exercises {
	e := &Exercises{catalog: cat, custom: custom}
	e.r = refresher[core.Exercise]{
		col:    custom,
		maxAge: cfg.MaxAge,
		fetch: func(ctx context.Context) ([]core.Exercise, error) {
			fetched, err := source.FetchExercises(ctx)
			if err != nil {
				return nil, err
			}
			for i := range fetched {
				fetched[i].ID = core.NormalizeExerciseID(fetched[i].ID)
				fetched[i].IsCustom = true
			}
			return fetched, nil
		},
	}
	return e
}

// Get returns the exercise for id, checking the built-in catalog first and
// the custom collection second.
func (e *Exercises) Get(ctx context.Context, id string) (core.Exercise, bool, error) {
	id = core.NormalizeExerciseID(id)
	if ex, ok := e.catalog.Lookup(id); ok {
		return ex, true, nil
	}
	if err := e.r.refreshIfStale(ctx); err != nil {
		return core.Exercise{}, false, err
	}
	return e.custom.GetByID(ctx, id)
}

// List returns the built-in catalog followed by all custom exercises.
func (e *Exercises) List(ctx context.Context) ([]core.Exercise, error) {
	if err := e.r.refreshIfStale(ctx); err != nil {
		return nil, err
	}
	custom, err := e.custom.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return append(e.catalog.All(), custom...), nil
}

// SaveCustom upserts a user-defined exercise.
func (e *Exercises) SaveCustom(ctx context.Context, ex core.Exercise) error {
	ex.ID = core.NormalizeExerciseID(ex.ID)
	if ex.ID == "" {
		return core.NewValidationError("exercise id is required")
	}
	if ex.Name == "" {
		return core.NewValidationError("exercise name is required")
	}
	if _, builtin := e.catalog.Lookup(ex.ID); builtin {
		return core.NewValidationError("exercise id %q collides with a built-in exercise", ex.ID)
	}
	ex.IsCustom = true
	return e.custom.Put(ctx, ex)
}

// RemoveCustom deletes a user-defined exercise. Removing an unknown id is not
// an error.
func (e *Exercises) RemoveCustom(ctx context.Context, id string) error {
	return e.custom.Remove(ctx, core.NormalizeExerciseID(id))
}
