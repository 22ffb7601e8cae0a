package core

import (
	"fmt"
	"sync"
)

// StepCounter enforces the run-wide step budget. One counter is shared by the
// parent loop and every nested sub-agent loop of a run, so its value only ever
// grows.
type StepCounter struct {
	max   int
	count int
	mu    sync.Mutex
}

// NewStepCounter creates a counter allowing max steps. A non-positive max
// allows no step at all.
func NewStepCounter(max int) *StepCounter {
	return &StepCounter{max: max}
}

// Increment records one step and returns the new count. Once the count
// exceeds the budget it returns ErrStepBudgetExceeded; the count is still
// advanced so callers observe exactly one increment per iteration.
func (sc *StepCounter) Increment() (int, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.count++
	if sc.count > sc.max {
		return sc.count, fmt.Errorf("%w: budget %d", ErrStepBudgetExceeded, sc.max)
	}

	return sc.count, nil
}

// Count returns the number of steps taken so far.
func (sc *StepCounter) Count() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.count
}

// Max returns the configured budget.
func (sc *StepCounter) Max() int { return sc.max }

// Remaining returns how many steps are left before hitting the budget.
func (sc *StepCounter) Remaining() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.count >= sc.max {
		return 0
	}

	return sc.max - sc.count
}

// Exhausted reports whether the budget has been spent.
func (sc *StepCounter) Exhausted() bool { return sc.Remaining() == 0 }
