package repository

import (
	"context"
	"time"

	"fittrack/internal/cache"
	"fittrack/internal/core"
	"fittrack/internal/remote"
)

// Programs serves training programs and executes cycle commands against them.
// Commands follow a load-apply-put shape: read the program from the cache,
// apply the corresponding Program method, and persist the returned value only
// when the method succeeded. A failed command leaves the cached program
// untouched.
type Programs struct {
	col   *cache.Collection[core.Program]
	clock cache.Clock
	r     refresher[core.Program]
}

// NewPrograms creates the program repository.
func NewPrograms(col *cache.Collection[core.Program], source remote.Source, cfg Config) *Programs {
	p := &Programs{col: col, clock: cfg.clock()}
	p.r = refresher[core.Program]{
		col:    col,
		maxAge: cfg.MaxAge,
		fetch:  source.FetchPrograms,
	}
	return p
}

// Get returns the program for id.
func (p *Programs) Get(ctx context.Context, id string) (core.Program, bool, error) {
	if err := p.r.refreshIfStale(ctx); err != nil {
		return core.Program{}, false, err
	}
	return p.col.GetByID(ctx, id)
}

// List returns all cached programs.
func (p *Programs) List(ctx context.Context) ([]core.Program, error) {
	if err := p.r.refreshIfStale(ctx); err != nil {
		return nil, err
	}
	return p.col.GetAll(ctx)
}

// Create builds and stores a new program.
func (p *Programs) Create(ctx context.Context, name string, typ core.ProgramType, difficulty core.Difficulty) (core.Program, error) {
	if name == "" {
		return core.Program{}, core.NewValidationError("program name is required")
	}
	program := core.NewProgram(name, typ, difficulty, p.clock())
	if err := p.col.Put(ctx, program); err != nil {
		return core.Program{}, err
	}
	return program, nil
}

// Save upserts a program. The program's cycle state must be consistent.
func (p *Programs) Save(ctx context.Context, program core.Program) error {
	if program.ID == "" {
		return core.NewValidationError("program id is required")
	}
	if !program.HasValidCycleState() {
		return core.NewValidationError("program %s has more than one active cycle", program.ID)
	}
	return p.col.Put(ctx, program)
}

// Delete removes a program and its cycles.
func (p *Programs) Delete(ctx context.Context, id string) error {
	return p.col.Remove(ctx, id)
}

// CreateCycle appends a new planned cycle to the program.
func (p *Programs) CreateCycle(ctx context.Context, programID string, start time.Time, end *time.Time, notes string) (core.ProgramCycle, error) {
	var created core.ProgramCycle
	err := p.apply(ctx, programID, func(program core.Program) (core.Program, error) {
		next, cycle, err := program.AddCycle(start, end, notes, p.clock())
		if err != nil {
			return program, err
		}
		created = cycle
		return next, nil
	})
	return created, err
}

// ActivateCycle makes the cycle the program's active one, deactivating any
// other active cycle.
func (p *Programs) ActivateCycle(ctx context.Context, programID, cycleID string) error {
	return p.apply(ctx, programID, func(program core.Program) (core.Program, error) {
		return program.ActivateCycle(cycleID, p.clock())
	})
}

// CompleteCycle marks the cycle completed.
func (p *Programs) CompleteCycle(ctx context.Context, programID, cycleID string) error {
	return p.apply(ctx, programID, func(program core.Program) (core.Program, error) {
		return program.CompleteCycle(cycleID, p.clock())
	})
}

// CompleteCurrentCycle completes the program's active cycle.
func (p *Programs) CompleteCurrentCycle(ctx context.Context, programID string) error {
	return p.apply(ctx, programID, func(program core.Program) (core.Program, error) {
		return program.CompleteCurrentCycle(p.clock())
	})
}

// UpdateCycle replaces the cycle without re-validating its date range.
func (p *Programs) UpdateCycle(ctx context.Context, programID string, cycle core.ProgramCycle) error {
	return p.apply(ctx, programID, func(program core.Program) (core.Program, error) {
		return program.ReplaceCycle(cycle)
	})
}

// UpdateCycleValidated replaces the cycle after checking its date range
// against the program's other cycles.
func (p *Programs) UpdateCycleValidated(ctx context.Context, programID string, cycle core.ProgramCycle) error {
	return p.apply(ctx, programID, func(program core.Program) (core.Program, error) {
		return program.ReplaceCycleValidated(cycle)
	})
}

// RemoveCycle deletes the cycle from the program. Unknown cycle ids are a no-op.
func (p *Programs) RemoveCycle(ctx context.Context, programID, cycleID string) error {
	return p.apply(ctx, programID, func(program core.Program) (core.Program, error) {
		return program.RemoveCycle(cycleID), nil
	})
}

// apply loads the program, runs fn on it, and persists the result. The cache
// is only written when fn succeeds.
func (p *Programs) apply(ctx context.Context, programID string, fn func(core.Program) (core.Program, error)) error {
	program, ok, err := p.Get(ctx, programID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewValidationError("program %s not found", programID)
	}
	next, err := fn(program)
	if err != nil {
		return err
	}
	return p.col.Put(ctx, next)
}
