package core

import (
	"time"

	"github.com/google/uuid"
)

// Cycle state machine. The two flags collapse into three effective states:
//
//	Planned   (isActive=false, isCompleted=false) — initial
//	Active    (isActive=true,  isCompleted=false) — via ActivateCycle
//	Completed (isActive=false, isCompleted=true)  — terminal
//
// All mutation methods are copy-on-write: they validate first and return a new
// Program only when every precondition holds, so a failed call leaves the
// receiver's value untouched.

// NewProgram creates an empty program with a generated id.
func NewProgram(name string, typ ProgramType, difficulty Difficulty, at time.Time) Program {
	return Program{
		ID:         uuid.NewString(),
		Name:       name,
		Type:       typ,
		Difficulty: difficulty,
		CreatedAt:  at,
	}
}

// AddCycle appends a new Planned cycle covering [start, end]. A nil end means
// the cycle is open-ended. Returns a validation error if the range is inverted
// or overlaps an existing cycle on this program.
func (p Program) AddCycle(start time.Time, end *time.Time, notes string, at time.Time) (Program, ProgramCycle, error) {
	if end != nil && end.Before(start) {
		return p, ProgramCycle{}, NewValidationError("cycle end date %s is before start date %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	if p.WouldOverlap(start, end) {
		return p, ProgramCycle{}, NewValidationError("cycle dates overlap an existing cycle")
	}

	cycle := ProgramCycle{
		ID:          uuid.NewString(),
		ProgramID:   p.ID,
		CycleNumber: p.NextCycleNumber(),
		StartDate:   start,
		EndDate:     end,
		CreatedAt:   at,
		Notes:       notes,
	}

	next := p.cloneCycles()
	next.Cycles = append(next.Cycles, cycle)
	return next, cycle, nil
}

// ActivateCycle marks the cycle as active. It rejects activation outside the
// cycle's date window and activation of a completed cycle. Any other active
// cycle is deactivated so at most one cycle is active afterwards.
func (p Program) ActivateCycle(cycleID string, at time.Time) (Program, error) {
	idx := p.cycleIndex(cycleID)
	if idx < 0 {
		return p, NewValidationError("cycle %s does not belong to program %s", cycleID, p.ID)
	}
	cycle := p.Cycles[idx]
	if cycle.IsCompleted {
		return p, NewValidationError("cycle %d is completed and cannot be reactivated", cycle.CycleNumber)
	}
	if !cycle.Contains(at) {
		return p, NewValidationError("cycle %d can only be activated between %s and %s",
			cycle.CycleNumber, cycle.StartDate.Format(time.DateOnly), cycle.endLabel())
	}

	next := p.cloneCycles()
	for i := range next.Cycles {
		next.Cycles[i].IsActive = i == idx
	}
	return next, nil
}

// CompleteCycle transitions the cycle to Completed, stamping its end date with
// the completion time if the cycle was open-ended. Completed is terminal.
func (p Program) CompleteCycle(cycleID string, at time.Time) (Program, error) {
	idx := p.cycleIndex(cycleID)
	if idx < 0 {
		return p, NewValidationError("cycle %s does not belong to program %s", cycleID, p.ID)
	}
	if p.Cycles[idx].IsCompleted {
		return p, NewValidationError("cycle %d is already completed", p.Cycles[idx].CycleNumber)
	}

	next := p.cloneCycles()
	c := &next.Cycles[idx]
	c.IsActive = false
	c.IsCompleted = true
	if c.EndDate == nil {
		end := at
		c.EndDate = &end
	}
	return next, nil
}

// CompleteCurrentCycle completes the active cycle, if any.
func (p Program) CompleteCurrentCycle(at time.Time) (Program, error) {
	active, ok := p.ActiveCycle()
	if !ok {
		return p, NewValidationError("program %s has no active cycle to complete", p.ID)
	}
	return p.CompleteCycle(active.ID, at)
}

// ReplaceCycle swaps in the given cycle by id without re-running overlap
// validation. Callers that change dates must either re-validate themselves or
// use ReplaceCycleValidated.
func (p Program) ReplaceCycle(cycle ProgramCycle) (Program, error) {
	idx := p.cycleIndex(cycle.ID)
	if idx < 0 {
		return p, NewValidationError("cycle %s does not belong to program %s", cycle.ID, p.ID)
	}
	next := p.cloneCycles()
	next.Cycles[idx] = cycle
	return next, nil
}

// ReplaceCycleValidated swaps in the given cycle by id after checking that its
// date range does not overlap any other cycle on the program.
func (p Program) ReplaceCycleValidated(cycle ProgramCycle) (Program, error) {
	idx := p.cycleIndex(cycle.ID)
	if idx < 0 {
		return p, NewValidationError("cycle %s does not belong to program %s", cycle.ID, p.ID)
	}
	if cycle.EndDate != nil && cycle.EndDate.Before(cycle.StartDate) {
		return p, NewValidationError("cycle end date %s is before start date %s",
			cycle.EndDate.Format(time.DateOnly), cycle.StartDate.Format(time.DateOnly))
	}
	for i, other := range p.Cycles {
		if i == idx {
			continue
		}
		if rangesOverlap(cycle.StartDate, cycle.EndDate, other.StartDate, other.EndDate) {
			return p, NewValidationError("cycle dates overlap cycle %d", other.CycleNumber)
		}
	}
	next := p.cloneCycles()
	next.Cycles[idx] = cycle
	return next, nil
}

// RemoveCycle deletes the cycle by id. Removing an unknown id is a no-op.
func (p Program) RemoveCycle(cycleID string) Program {
	idx := p.cycleIndex(cycleID)
	if idx < 0 {
		return p
	}
	next := p
	next.Cycles = make([]ProgramCycle, 0, len(p.Cycles)-1)
	next.Cycles = append(next.Cycles, p.Cycles[:idx]...)
	next.Cycles = append(next.Cycles, p.Cycles[idx+1:]...)
	return next
}

// ActiveCycle returns the single active cycle, if one exists.
func (p Program) ActiveCycle() (ProgramCycle, bool) {
	for _, c := range p.Cycles {
		if c.IsActive {
			return c, true
		}
	}
	return ProgramCycle{}, false
}

// CompletedCycles returns the cycles that have been completed, in cycle order.
func (p Program) CompletedCycles() []ProgramCycle {
	var out []ProgramCycle
	for _, c := range p.Cycles {
		if c.IsCompleted {
			out = append(out, c)
		}
	}
	return out
}

// ActivatableCycles returns the cycles whose date window contains at and that
// are not completed.
func (p Program) ActivatableCycles(at time.Time) []ProgramCycle {
	var out []ProgramCycle
	for _, c := range p.Cycles {
		if !c.IsCompleted && c.Contains(at) {
			out = append(out, c)
		}
	}
	return out
}

// NextCycleNumber returns max(existing cycle numbers) + 1, or 1 if none exist.
func (p Program) NextCycleNumber() int {
	max := 0
	for _, c := range p.Cycles {
		if c.CycleNumber > max {
			max = c.CycleNumber
		}
	}
	return max + 1
}

// WouldOverlap reports whether a cycle covering [start, end] would overlap any
// existing cycle. A nil end is treated as extending indefinitely.
func (p Program) WouldOverlap(start time.Time, end *time.Time) bool {
	for _, c := range p.Cycles {
		if rangesOverlap(start, end, c.StartDate, c.EndDate) {
			return true
		}
	}
	return false
}

// HasValidCycleState reports whether at most one cycle is active.
func (p Program) HasValidCycleState() bool {
	active := 0
	for _, c := range p.Cycles {
		if c.IsActive {
			active++
		}
	}
	return active <= 1
}

func (p Program) cycleIndex(cycleID string) int {
	for i, c := range p.Cycles {
		if c.ID == cycleID {
			return i
		}
	}
	return -1
}

// cloneCycles returns a copy of p with its cycle slice duplicated, so
// mutations never alias the receiver's backing array.
func (p Program) cloneCycles() Program {
	next := p
	next.Cycles = make([]ProgramCycle, len(p.Cycles))
	copy(next.Cycles, p.Cycles)
	return next
}

// Contains reports whether t falls within [StartDate, EndDate], inclusive on
// both ends. An open-ended cycle contains every instant at or after its start.
func (c ProgramCycle) Contains(t time.Time) bool {
	if t.Before(c.StartDate) {
		return false
	}
	return c.EndDate == nil || !t.After(*c.EndDate)
}

// DurationInDays returns the inclusive day count of the cycle, or 0 for an
// open-ended cycle.
func (c ProgramCycle) DurationInDays() int {
	if c.EndDate == nil {
		return 0
	}
	return int(c.EndDate.Sub(c.StartDate).Hours()/24) + 1
}

// DurationInWeeks returns the cycle length rounded up to whole weeks.
func (c ProgramCycle) DurationInWeeks() int {
	days := c.DurationInDays()
	if days == 0 {
		return 0
	}
	return (days + 6) / 7
}

func (c ProgramCycle) endLabel() string {
	if c.EndDate == nil {
		return "open end"
	}
	return c.EndDate.Format(time.DateOnly)
}

// rangesOverlap implements the inclusive interval test
// s1 <= e2 && s2 <= e1 with a nil end standing in for +infinity.
func rangesOverlap(s1 time.Time, e1 *time.Time, s2 time.Time, e2 *time.Time) bool {
	if e2 != nil && s1.After(*e2) {
		return false
	}
	if e1 != nil && s2.After(*e1) {
		return false
	}
	return true
}
