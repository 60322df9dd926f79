package core

import (
	"strings"
	"time"
)

// ProgramType classifies how a program structures its training.
type ProgramType string

const (
	ProgramTypeStrength    ProgramType = "strength"
	ProgramTypeHypertrophy ProgramType = "hypertrophy"
	ProgramTypeEndurance   ProgramType = "endurance"
	ProgramTypeGeneral     ProgramType = "general"
)

// Difficulty is the intended experience level of a program.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Periodicity is the default scheduling cadence of a program, in sessions per week.
type Periodicity int

// WeightUnit is the unit a user prefers for loading an exercise.
type WeightUnit string

const (
	WeightUnitKilograms WeightUnit = "kg"
	WeightUnitPounds    WeightUnit = "lb"
)

// Exercise is a single movement, either from the built-in catalog or user-defined.
type Exercise struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MuscleGroup  string    `json:"muscle_group,omitempty"`
	Equipment    string    `json:"equipment,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	IsCustom     bool      `json:"is_custom"`
	CreatedAt    time.Time `json:"created_at"`
}

// CacheKey returns the key the exercise is cached under.
// Exercise ids are normalized by the repository before they reach the cache;
// the cache itself performs exact matching only.
func (e Exercise) CacheKey() string { return e.ID }

// ExercisePreference holds per-exercise user settings (unit, bar weight, plate increment).
type ExercisePreference struct {
	ExerciseID      string     `json:"exercise_id"`
	Unit            WeightUnit `json:"unit"`
	BarWeight       float64    `json:"bar_weight,omitempty"`
	Increment       float64    `json:"increment,omitempty"`
	WarmupSetsCount int        `json:"warmup_sets_count,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CacheKey returns the key the preference is cached under.
func (p ExercisePreference) CacheKey() string { return p.ExerciseID }

// SetLog records a single performed set.
type SetLog struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	RPE    float64 `json:"rpe,omitempty"`
}

// SessionExercise is one exercise performed within a workout session.
type SessionExercise struct {
	ExerciseID string   `json:"exercise_id"`
	Sets       []SetLog `json:"sets"`
	Notes      string   `json:"notes,omitempty"`
}

// WorkoutSession is a single logged workout, optionally tied to a program cycle.
type WorkoutSession struct {
	ID          string            `json:"id"`
	ProgramID   string            `json:"program_id,omitempty"`
	CycleID     string            `json:"cycle_id,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Exercises   []SessionExercise `json:"exercises,omitempty"`
	Notes       string            `json:"notes,omitempty"`
}

// CacheKey returns the key the session is cached under.
func (s WorkoutSession) CacheKey() string { return s.ID }

// Program is a training program owning its cycles. Programs are value objects:
// every mutation method returns a new Program, callers must thread the
// returned value forward.
type Program struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        ProgramType    `json:"type"`
	Difficulty  Difficulty     `json:"difficulty"`
	Periodicity *Periodicity   `json:"periodicity,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Cycles      []ProgramCycle `json:"cycles,omitempty"`
}

// CacheKey returns the key the program is cached under.
func (p Program) CacheKey() string { return p.ID }

// ProgramCycle is a bounded or open-ended time window during which its program
// is the one actively being followed. Cycles are owned exclusively by their
// Program and have no independent lifecycle.
type ProgramCycle struct {
	ID          string     `json:"id"`
	ProgramID   string     `json:"program_id"`
	CycleNumber int        `json:"cycle_number"`
	StartDate   time.Time  `json:"start_date"`
	// EndDate nil means the cycle is ongoing and extends indefinitely.
	EndDate     *time.Time `json:"end_date,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	Notes       string     `json:"notes,omitempty"`
}

// NormalizeExerciseID folds an exercise id to its canonical cache form.
// The repository layer owns this policy; writes and reads must both go
// through it or exact-match lookups will miss (see cache package docs).
func NormalizeExerciseID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
