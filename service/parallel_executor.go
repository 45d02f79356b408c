package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/jmetrics/domain"
	"github.com/ludo-technologies/jmetrics/internal/config"
)

// DefaultTimeout bounds a run when the configuration sets none
const DefaultTimeout = 5 * time.Minute

// TaskError represents a single task failure
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tasks failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap returns the first error for errors.Is/As compatibility
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// TaskResult is the outcome of one enabled task
type TaskResult struct {
	Name   string
	Result any
	Err    error
}

// ParallelExecutorImpl runs independent tasks such as file parsing with
// bounded concurrency. Results are reported in task order.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	description    string
	mu             sync.RWMutex
}

// NewParallelExecutor creates a parallel executor using every CPU and the default timeout
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
		description:    "Processing",
	}
}

// NewParallelExecutorFromConfig creates a parallel executor from configuration.
// Zero values select every CPU and the default timeout.
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutorImpl {
	executor := NewParallelExecutor()
	if cfg == nil {
		return executor
	}
	if cfg.MaxGoroutines > 0 {
		executor.maxConcurrency = cfg.MaxGoroutines
	}
	if cfg.TimeoutSeconds > 0 {
		executor.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return executor
}

// NewParallelExecutorWithProgress creates a parallel executor reporting to a progress manager
func NewParallelExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager, description string) *ParallelExecutorImpl {
	executor := NewParallelExecutorFromConfig(cfg)
	executor.progress = pm
	if description != "" {
		executor.description = description
	}
	return executor
}

// Execute runs the enabled tasks and returns an *AggregatedError listing every failure
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	_, err := e.ExecuteCollect(ctx, tasks)
	return err
}

// ExecuteCollect runs the enabled tasks and returns their results in task
// order. A failing task does not stop the others; the context deadline does.
func (e *ParallelExecutorImpl) ExecuteCollect(ctx context.Context, tasks []domain.ExecutableTask) ([]TaskResult, error) {
	enabledTasks := e.filterEnabledTasks(tasks)
	if len(enabledTasks) == 0 {
		return nil, nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		task = e.progress.StartTask(e.description, len(enabledTasks))
	}
	defer task.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	results := make([]TaskResult, len(enabledTasks))
	for i, t := range enabledTasks {
		i, t := i, t
		g.Go(func() error {
			results[i].Name = t.Name()

			select {
			case <-gCtx.Done():
				results[i].Err = gCtx.Err()
				return nil
			default:
			}

			results[i].Result, results[i].Err = t.Execute(gCtx)
			task.Record(t.Name(), results[i].Result, results[i].Err)
			task.Increment(1)

			if results[i].Err != nil {
				logrus.WithField("task", t.Name()).WithError(results[i].Err).Debug("task failed")
			}
			// Failures are collected, not propagated, so every task gets to run
			return nil
		})
	}
	_ = g.Wait()

	var taskErrors []TaskError
	for _, r := range results {
		if r.Err != nil {
			taskErrors = append(taskErrors, TaskError{TaskName: r.Name, Err: r.Err})
		}
	}
	if len(taskErrors) > 0 {
		return results, &AggregatedError{Errors: taskErrors}
	}
	return results, nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for all tasks
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

// filterEnabledTasks returns only tasks where IsEnabled() returns true
func (e *ParallelExecutorImpl) filterEnabledTasks(tasks []domain.ExecutableTask) []domain.ExecutableTask {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
