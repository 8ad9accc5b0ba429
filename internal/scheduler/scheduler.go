// Package scheduler turns a cron expression into capture jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/birdwatcher/internal/config"
	"github.com/raoulx24/birdwatcher/internal/logging"
	"github.com/raoulx24/birdwatcher/internal/mailbox"
	"github.com/raoulx24/birdwatcher/internal/worker"
)

// Scheduler puts a job into the mailbox every time the cron expression fires.
type Scheduler struct {
	mu    sync.Mutex
	cron  *cron.Cron
	spec  string
	entry cron.EntryID
	on    bool

	log logging.Logger
	mb  *mailbox.Mailbox[worker.Job]
}

// New creates a scheduler for spec, evaluated in tz.
func New(spec string, tz *time.Location, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) (*Scheduler, error) {
	s := &Scheduler{log: log, mb: mb}
	if err := s.install(spec, tz); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) install(spec string, tz *time.Location) error {
	if tz == nil {
		tz = time.Local
	}
	c := cron.New(
		cron.WithParser(config.CronParser),
		cron.WithLocation(tz),
		cron.WithLogger(cronLogger{s.log}),
	)
	id, err := c.AddFunc(spec, s.fire)
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	s.cron = c
	s.spec = spec
	s.entry = id
	return nil
}

func (s *Scheduler) fire() {
	if s.mb.Put(worker.Job{Trigger: time.Now(), Source: "cron"}) {
		s.log.Warn("previous capture still pending, trigger coalesced")
	}
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.cron.Start()
	s.on = true
	spec := s.spec
	s.mu.Unlock()

	s.log.Info("scheduler started", "cron", spec, "next", s.Next())
}

// Stop stops firing. The returned context is done once a running trigger
// has returned.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = false
	return s.cron.Stop()
}

// Next returns the next time the schedule fires.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron.Entry(s.entry).Next
}

// Reschedule replaces the expression and timezone for hot-reload. On error
// the old schedule keeps running.
func (s *Scheduler) Reschedule(spec string, tz *time.Location) error {
	s.mu.Lock()
	old := s.cron
	if err := s.install(spec, tz); err != nil {
		s.mu.Unlock()
		return err
	}
	old.Stop()
	if s.on {
		s.cron.Start()
	}
	s.mu.Unlock()

	s.log.Info("schedule updated", "cron", spec, "next", s.Next())
	return nil
}

// cronLogger routes cron's internal logging to ours.
type cronLogger struct {
	log logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
