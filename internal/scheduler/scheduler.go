// Package scheduler runs the periodic jobs of watch mode on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/touchline/internal/logger"
	"github.com/yourusername/touchline/internal/metrics"
)

// Job is one unit of scheduled work
type Job func(ctx context.Context) error

// JobInfo describes a scheduled job
type JobInfo struct {
	Name string    `json:"name"`
	Spec string    `json:"schedule"`
	Next time.Time `json:"next_run"`
	Prev time.Time `json:"previous_run"`
}

type entry struct {
	id   cron.EntryID
	spec string
	job  Job
}

// Scheduler manages named cron jobs. A job never overlaps with itself.
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobs            map[string]entry
	jobTimeout      time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a scheduler whose jobs run in UTC, each bounded by
// jobTimeout
func NewScheduler(log *logrus.Logger, jobTimeout time.Duration) *Scheduler {
	entryLog := logger.NewComponentLogger(log, "scheduler")
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Minute
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger:          entryLog,
		jobs:            make(map[string]entry),
		jobTimeout:      jobTimeout,
		gracefulTimeout: 30 * time.Second,
	}
}

// Schedule registers job under name with a standard five-field cron spec or
// a descriptor such as "@hourly"
func (s *Scheduler) Schedule(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q is already scheduled", name)
	}

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.execute(ctx, name, job)
	}
	id, err := s.cron.AddFunc(spec, run)
	if err != nil {
		return fmt.Errorf("failed to add job %q: %w", name, err)
	}

	s.jobs[name] = entry{id: id, spec: spec, job: job}
	s.logger.WithFields(logrus.Fields{"job": name, "schedule": spec}).Info("Job scheduled")
	return nil
}

// RunNow executes the named job synchronously with ctx
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	e, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q is not scheduled", name)
	}
	return s.execute(ctx, name, e.job)
}

func (s *Scheduler) execute(ctx context.Context, name string, job Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", name, r)
		}
		finished := time.Now()
		metrics.RecordJobRun(name, err, finished.Sub(start).Seconds(), float64(finished.Unix()))

		fields := logrus.Fields{"job": name, "duration": finished.Sub(start).String()}
		if err != nil {
			s.logger.WithFields(fields).WithError(err).Error("Scheduled job failed")
			return
		}
		s.logger.WithFields(fields).Info("Scheduled job completed")
	}()
	return job(ctx)
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobs)).Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs, up to the graceful
// timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the earliest next run across all jobs, zero when stopped
func (s *Scheduler) NextRun() time.Time {
	next := time.Time{}
	if !s.IsRunning() {
		return next
	}
	for _, info := range s.Jobs() {
		if next.IsZero() || (!info.Next.IsZero() && info.Next.Before(next)) {
			next = info.Next
		}
	}
	return next
}

// Jobs lists the scheduled jobs by name
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for name, e := range s.jobs {
		info := JobInfo{Name: name, Spec: e.spec}
		if ce := s.cron.Entry(e.id); ce.Valid() {
			info.Next = ce.Next
			info.Prev = ce.Prev
		}
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Remove unschedules the named job
func (s *Scheduler) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}
	e, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("job %q is not scheduled", name)
	}

	s.cron.Remove(e.id)
	delete(s.jobs, name)
	s.logger.WithField("job", name).Info("Job removed")
	return nil
}
