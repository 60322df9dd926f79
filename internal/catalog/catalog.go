// Package catalog loads the built-in exercise catalog. Built-in exercises are
// shipped with the app and looked up directly; only user-defined exercises go
// through the cache layer.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fittrack/internal/core"
)

type seedFile struct {
	Exercises []seedExercise `yaml:"exercises"`
}

type seedExercise struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	MuscleGroup  string `yaml:"muscle_group"`
	Equipment    string `yaml:"equipment"`
	Instructions string `yaml:"instructions"`
}

// Catalog is an immutable, id-keyed view of the built-in exercises.
// Ids are normalized at load time, so lookups must pass normalized ids.
type Catalog struct {
	byID  map[string]core.Exercise
	order []string
}

// Load reads a YAML seed file. An empty path returns the compiled-in default
// catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return build(defaultSeed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	return build(seed.Exercises)
}

func build(seed []seedExercise) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]core.Exercise, len(seed))}
	for i, e := range seed {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		id := core.NormalizeExerciseID(e.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog entry %q has no id", e.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", id)
		}
		c.byID[id] = core.Exercise{
			ID:           id,
			Name:         e.Name,
			MuscleGroup:  e.MuscleGroup,
			Equipment:    e.Equipment,
			Instructions: e.Instructions,
		}
		c.order = append(c.order, id)
	}
	return c, nil
}

// Lookup returns the built-in exercise for a normalized id.
func (c *Catalog) Lookup(id string) (core.Exercise, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// All returns the catalog exercises in seed order.
func (c *Catalog) All() []core.Exercise {
	out := make([]core.Exercise, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len returns the number of built-in exercises.
func (c *Catalog) Len() int { return len(c.byID) }

// defaultSeed is the compiled-in catalog used when no seed file is configured.
var defaultSeed = []seedExercise{
	{ID: "squat", Name: "Back Squat", MuscleGroup: "legs", Equipment: "barbell"},
	{ID: "front-squat", Name: "Front Squat", MuscleGroup: "legs", Equipment: "barbell"},
	{ID: "deadlift", Name: "Deadlift", MuscleGroup: "back", Equipment: "barbell"},
	{ID: "bench-press", Name: "Bench Press", MuscleGroup: "chest", Equipment: "barbell"},
	{ID: "overhead-press", Name: "Overhead Press", MuscleGroup: "shoulders", Equipment: "barbell"},
	{ID: "barbell-row", Name: "Barbell Row", MuscleGroup: "back", Equipment: "barbell"},
	{ID: "pull-up", Name: "Pull-Up", MuscleGroup: "back", Equipment: "bodyweight"},
	{ID: "dip", Name: "Dip", MuscleGroup: "chest", Equipment: "bodyweight"},
	{ID: "lunge", Name: "Lunge", MuscleGroup: "legs", Equipment: "dumbbell"},
	{ID: "plank", Name: "Plank", MuscleGroup: "core", Equipment: "bodyweight"},
}
