package domain

import "context"

// ProgressManager creates progress tasks for long-running steps
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks one running step
type TaskProgress interface {
	Increment(n int)
	Describe(description string)

	// Record notes a finished item with what it produced
	Record(item string, result any, err error)

	Complete()
}

// ExecutableTask is a unit of work run by a ParallelExecutor
type ExecutableTask interface {
	Name() string
	IsEnabled() bool
	Execute(ctx context.Context) (any, error)
}

// ParallelExecutor runs independent tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}
