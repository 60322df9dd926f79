package cache

import (
	"fittrack/internal/core"
	"fittrack/internal/kvstore"
)

// Cache collection namespaces. Each maps 1:1 onto a kvstore namespace; the
// paired "<namespace>_meta" namespace holds the last-write timestamp.
const (
	NamespaceCustomExercises     = "custom_exercises"
	NamespaceExercisePreferences = "exercise_preferences"
	NamespacePrograms            = "programs"
	NamespaceWorkoutSessions     = "workout_sessions"
)

// NewExercises creates the custom-exercise collection.
func NewExercises(store kvstore.Store, opts ...Option[core.Exercise]) *Collection[core.Exercise] {
	return NewCollection(store, NamespaceCustomExercises, core.Exercise.CacheKey, opts...)
}

// NewPreferences creates the exercise-preference collection.
func NewPreferences(store kvstore.Store, opts ...Option[core.ExercisePreference]) *Collection[core.ExercisePreference] {
	return NewCollection(store, NamespaceExercisePreferences, core.ExercisePreference.CacheKey, opts...)
}

// NewPrograms creates the program collection.
func NewPrograms(store kvstore.Store, opts ...Option[core.Program]) *Collection[core.Program] {
	return NewCollection(store, NamespacePrograms, core.Program.CacheKey, opts...)
}

// NewSessions creates the workout-session collection.
func NewSessions(store kvstore.Store, opts ...Option[core.WorkoutSession]) *Collection[core.WorkoutSession] {
	return NewCollection(store, NamespaceWorkoutSessions, core.WorkoutSession.CacheKey, opts...)
}
