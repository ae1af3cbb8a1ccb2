package job

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abelbrown/tradewatch/internal/logging"
)

// handle is the runner's view of a running job, independent of its
// result type.
type handle interface {
	markCancelled()
}

// Runner enforces at-most-one running job per job id and routes cancel
// requests. Safe for concurrent use.
type Runner struct {
	mu      sync.Mutex
	running map[string]handle
}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{running: make(map[string]handle)}
}

// Cancel requests cooperative cancellation of a running job. Unknown
// ids are ignored.
func (r *Runner) Cancel(jobID string) {
	r.mu.Lock()
	h, ok := r.running[jobID]
	r.mu.Unlock()
	if ok {
		h.markCancelled()
	}
}

// Running returns the ids of all currently running jobs.
func (r *Runner) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.running))
	for id := range r.running {
		ids = append(ids, id)
	}
	return ids
}

func (r *Runner) acquire(id string, h handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.running[id]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, id)
	}
	r.running[id] = h
	return nil
}

func (r *Runner) release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.running, id)
}

// Run drives a job to completion and returns the final snapshot's data.
// The task's context is cancelled as soon as cooperative cancellation
// is observed, and the run does not return until the task goroutine has
// exited.
func Run[T any](r *Runner, ctx context.Context, j *Job[T]) (T, error) {
	var zero T

	if err := r.acquire(j.ID, j); err != nil {
		return zero, err
	}
	defer r.release(j.ID)

	runID := uuid.NewString()
	j.beginRun(runID)
	logging.Info("job started", "job", j.ID, "run", runID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	snapshots := make(chan Progress[T])
	errc := make(chan error, 1)
	go func() {
		defer close(snapshots)
		errc <- j.Task(ctx, snapshots)
	}()

	var last *Progress[T]
	for snap := range snapshots {
		snap := snap
		last = &snap
		j.setProgress(snap)

		if j.OnStep != nil {
			j.OnStep(snap)
		}

		if j.isCancelled() {
			cancel()
			for range snapshots {
			}
			<-errc

			err := &CancelledError{Progress: snap}
			j.setStatus(StatusCancelled)
			logging.Info("job cancelled", "job", j.ID, "run", runID, "current", snap.Current)
			if j.OnFail != nil {
				j.OnFail(err)
			}
			return zero, err
		}
	}

	if err := <-errc; err != nil {
		j.setStatus(StatusFailed)
		logging.Error("job failed", "job", j.ID, "run", runID, "error", err)
		if j.OnFail != nil {
			j.OnFail(err)
		}
		return zero, err
	}

	if last == nil {
		j.setStatus(StatusFailed)
		if j.OnFail != nil {
			j.OnFail(ErrNoProgress)
		}
		return zero, ErrNoProgress
	}

	j.setStatus(StatusDone)
	logging.Info("job done", "job", j.ID, "run", runID, "current", last.Current, "total", last.Total)
	if j.OnDone != nil {
		j.OnDone(*last)
	}
	return last.Data, nil
}
