package docmodel

import "time"

// TaskResult is the outcome of executing a single Task.
type TaskResult struct {
	TaskID string
	Kind   TaskKind
	// ResolvedRange is where the Executor's locator chain actually
	// placed the task, regardless of how the Locator named it — the
	// Validator's Gate L4 plausibility check keys off this, not the
	// raw Locator value.
	ResolvedRange CharRange
	Success       bool
	Message       string
	Duration      time.Duration
	Error         *string
}

// ExecutionResult aggregates every TaskResult produced by one
// Executor run.
type ExecutionResult struct {
	Success      bool
	TotalTasks   int
	SucceededN   int
	FailedN      int
	Results      []TaskResult
	TotalElapsed time.Duration
	ErrorSummary string
}
