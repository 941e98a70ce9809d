package core

import (
	"errors"
	"fmt"
)

// ErrUnknownAgent is returned by AddTask when the target agent is not
// registered. Plan steps hitting this are dropped, not fatal.
var ErrUnknownAgent = errors.New("unknown agent")

// ErrMissingSymbol is returned by the orchestration entry point when no
// symbol was supplied.
var ErrMissingSymbol = errors.New("stock symbol is required")

// PlanningError wraps a planner failure. There is no safe default plan,
// so these surface as a failed analysis.
type PlanningError struct {
	Err error
}

func (e *PlanningError) Error() string {
	return fmt.Sprintf("planning failed: %v", e.Err)
}

func (e *PlanningError) Unwrap() error { return e.Err }

// ReportError wraps a report generation failure, which likewise has no
// safe default.
type ReportError struct {
	Err error
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report generation failed: %v", e.Err)
}

func (e *ReportError) Unwrap() error { return e.Err }
