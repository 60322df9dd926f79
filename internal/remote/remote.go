// Package remote defines the datasource the repositories refetch from when a
// cache collection has expired. In the shipped app this is a file-backed
// export; a real sync backend would implement the same interface.
package remote

import (
	"context"

	"fittrack/internal/core"
)

// Source provides the authoritative copy of each entity family.
type Source interface {
	FetchExercises(ctx context.Context) ([]core.Exercise, error)
	FetchPreferences(ctx context.Context) ([]core.ExercisePreference, error)
	FetchPrograms(ctx context.Context) ([]core.Program, error)
	FetchSessions(ctx context.Context) ([]core.WorkoutSession, error)
}

// Empty is a Source with no data, used when no export is configured.
type Empty struct{}

func (Empty) FetchExercises(context.Context) ([]core.Exercise, error)             { return nil, nil }
func (Empty) FetchPreferences(context.Context) ([]core.ExercisePreference, error) { return nil, nil }
func (Empty) FetchPrograms(context.Context) ([]core.Program, error)               { return nil, nil }
func (Empty) FetchSessions(context.Context) ([]core.WorkoutSession, error)        { return nil, nil }
