// Package worker runs capture jobs one at a time.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/raoulx24/birdwatcher/internal/archive"
	"github.com/raoulx24/birdwatcher/internal/logging"
	"github.com/raoulx24/birdwatcher/internal/mailbox"
)

// Runner performs one capture invocation.
type Runner interface {
	Run(ctx context.Context, now time.Time) (archive.Result, error)
}

// Worker takes jobs from the mailbox and hands them to the runner. Only one
// capture runs at a time, so scheduled invocations never overlap.
type Worker struct {
	mu     sync.RWMutex
	runner Runner
	log    logging.Logger
	mb     *mailbox.Mailbox[Job]
	now    func() time.Time
}

// New creates a worker reading from mb.
func New(runner Runner, log logging.Logger, mb *mailbox.Mailbox[Job]) *Worker {
	return &Worker{
		runner: runner,
		log:    log,
		mb:     mb,
		now:    time.Now,
	}
}

// Start runs the worker loop until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take(ctx)
		if !ok {
			w.log.Info("worker stopped")
			return
		}
		if _, err := w.Handle(ctx, job); err != nil {
			w.log.Error("capture failed", "source", job.Source, "error", err)
		}
	}
}

// Handle runs one capture. The capture time is taken when the job starts,
// not when it was triggered.
func (w *Worker) Handle(ctx context.Context, job Job) (archive.Result, error) {
	w.mu.RLock()
	runner := w.runner
	w.mu.RUnlock()

	now := w.now()
	w.log.Debug("handling job", "source", job.Source, "trigger", job.Trigger, "delay", now.Sub(job.Trigger))
	return runner.Run(ctx, now)
}

// UpdateRunner swaps the runner for hot-reload; the running job finishes
// with the old one.
func (w *Worker) UpdateRunner(r Runner) {
	w.mu.Lock()
	w.runner = r
	w.mu.Unlock()
}
