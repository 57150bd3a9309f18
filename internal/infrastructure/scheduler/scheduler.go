// Package scheduler runs background maintenance jobs on fixed intervals.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobFunc is one run of a periodic job
type JobFunc func(ctx context.Context) error

// Job is a named function run every Interval
type Job struct {
	Name     string
	Interval time.Duration
	Run      JobFunc
	// RunOnStart runs the job once right after Start instead of waiting a full interval
	RunOnStart bool
}

// Config holds scheduler configuration
type Config struct {
	JobTimeout time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{JobTimeout: 5 * time.Minute}
}

// RunObserver is told about every finished run (metrics)
type RunObserver func(job string, err error)

// Scheduler runs registered jobs, one goroutine per job. A job never overlaps
// with itself: the next tick is skipped while a run is in progress.
type Scheduler struct {
	config   Config
	logger   *zap.Logger
	observer RunObserver

	mu        sync.Mutex
	jobs      []Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithObserver reports each run to fn
func WithObserver(fn RunObserver) Option {
	return func(s *Scheduler) {
		s.observer = fn
	}
}

// New creates a stopped scheduler
func New(config Config, logger *zap.Logger, opts ...Option) *Scheduler {
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	s := &Scheduler{
		config: config,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Interval <= 0 || job.Run == nil {
		return fmt.Errorf("%w: %q", ErrInvalidJob, job.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start launches every registered job
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, job)
	}

	s.logger.Info("Scheduler started",
		zap.Int("jobs", len(s.jobs)),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
}

// Stop cancels running jobs and waits for them until ctx expires
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	if job.RunOnStart {
		s.runOnce(ctx, job)
	}

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := s.safeRun(jobCtx, job)
	if s.observer != nil {
		s.observer(job.Name, err)
	}

	if err != nil {
		s.logger.Error("Scheduled job failed",
			zap.String("job", job.Name),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	s.logger.Debug("Scheduled job completed",
		zap.String("job", job.Name),
		zap.Duration("duration", time.Since(start)),
	)
}

func (s *Scheduler) safeRun(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.Name, r)
		}
	}()
	return job.Run(ctx)
}
