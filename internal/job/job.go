// Package job runs named, cancellable, progress-reporting tasks. At
// most one job per id may run at a time; progress flows from the task
// to its driver over a channel, and cancellation is a cooperative flag
// checked between snapshots.
package job

import (
	"context"
	"errors"
	"sync"
)

// Status is a job's lifecycle state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Progress is one task snapshot.
type Progress[T any] struct {
	Current int
	Total   int
	Data    T
}

// Task produces progress snapshots on out until it returns. The final
// snapshot's Data is the job's result. A task that returns without
// emitting a single snapshot fails the job with ErrNoProgress.
type Task[T any] func(ctx context.Context, out chan<- Progress[T]) error

// ErrNoProgress marks a task that completed without reporting any
// progress. Every meaningful job emits at least one snapshot.
var ErrNoProgress = errors.New("job: no progress was made")

// ErrAlreadyRunning is returned when a job with the same id is still
// running. There is no queuing; the caller waits or cancels.
var ErrAlreadyRunning = errors.New("job: already running")

// CancelledError is the failure of a cancelled job. It carries the last
// progress snapshot so partial results are not discarded.
type CancelledError struct {
	// Progress holds the job's Progress[T] at the time of cancellation.
	Progress any
}

func (e *CancelledError) Error() string {
	return "job was cancelled"
}

// Job is one named unit of long-running work. The hooks are optional;
// OnStep runs once per snapshot before the cancellation check.
type Job[T any] struct {
	ID          string
	Name        string
	Description string
	Task        Task[T]

	OnStep func(Progress[T])
	OnDone func(Progress[T])
	OnFail func(error)

	mu        sync.Mutex
	status    Status
	progress  *Progress[T]
	runID     string
	cancelled bool
}

// Status returns the job's lifecycle state.
func (j *Job[T]) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == "" {
		return StatusIdle
	}
	return j.status
}

// Progress returns the most recent snapshot, or nil before the first.
func (j *Job[T]) Progress() *Progress[T] {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.progress
}

// RunID identifies the current (or most recent) run.
func (j *Job[T]) RunID() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runID
}

// FailureMessage renders an error as a user-facing message, falling
// back to a generic one when the error carries no text.
func (j *Job[T]) FailureMessage(err error) string {
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return j.Name + " failed"
}

func (j *Job[T]) setStatus(s Status) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = s
}

func (j *Job[T]) setProgress(p Progress[T]) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress = &p
}

func (j *Job[T]) beginRun(runID string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = StatusRunning
	j.progress = nil
	j.runID = runID
	j.cancelled = false
}

// markCancelled sets the cooperative cancellation flag. The run
// observes it after the next snapshot's OnStep.
func (j *Job[T]) markCancelled() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cancelled = true
}

func (j *Job[T]) isCancelled() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancelled
}
