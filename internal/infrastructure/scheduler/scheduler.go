// Package scheduler runs a job repeatedly on a schedule until its context
// is cancelled. Runs never overlap: the next run is planned from the start
// of the previous one and waits for it to finish.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/acharya/acharya/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Job defines a unit of scheduled work.
type Job interface {
	// Name returns the name used in logs.
	Name() string

	// Run executes the job. The context is cancelled when the runner stops.
	Run(ctx context.Context) error
}

// Schedule defines when a job should run.
type Schedule interface {
	// Next returns the next time the job should run after the given time.
	Next(t time.Time) time.Time

	// String returns a human-readable representation of the schedule.
	String() string
}

type jobFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (j jobFunc) Name() string                  { return j.name }
func (j jobFunc) Run(ctx context.Context) error { return j.fn(ctx) }

// NewJob adapts fn to the Job interface.
func NewJob(name string, fn func(ctx context.Context) error) Job {
	return jobFunc{name: name, fn: fn}
}

// JobResult contains the result of one job execution.
type JobResult struct {
	JobName   string
	Run       int
	StartedAt time.Time
	Duration  time.Duration
	Error     error
}

// Success reports whether the run returned no error.
func (r JobResult) Success() bool { return r.Error == nil }

// ══════════════════════════════════════════════════════════════════════════════
// RUNNER
// ══════════════════════════════════════════════════════════════════════════════

// RunnerConfig contains configuration for the Runner.
type RunnerConfig struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// OnJobComplete is called after every run.
	OnJobComplete func(result JobResult)
}

// Runner executes one job on a schedule.
type Runner struct {
	logger     *slog.Logger
	onComplete func(JobResult)
}

// NewRunner creates a new Runner.
func NewRunner(config RunnerConfig) *Runner {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Runner{
		logger:     config.Logger.With(logger.Component("scheduler")),
		onComplete: config.OnJobComplete,
	}
}

// ErrNoSchedule is returned by Run without a schedule.
var ErrNoSchedule = errors.New("scheduler: schedule is required")

// Run executes job immediately and then whenever schedule says, until ctx is
// done. A failing run is logged and does not stop the loop. Run returns nil
// once ctx is cancelled.
func (r *Runner) Run(ctx context.Context, job Job, schedule Schedule) error {
	if schedule == nil {
		return ErrNoSchedule
	}

	r.logger.Debug("job scheduled", slog.String("job", job.Name()), slog.String("schedule", schedule.String()))

	for run := 1; ; run++ {
		startedAt := time.Now()
		r.runOnce(ctx, job, run, startedAt)

		wait := time.Until(schedule.Next(startedAt))
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, job Job, run int, startedAt time.Time) {
	err := job.Run(ctx)
	result := JobResult{
		JobName:   job.Name(),
		Run:       run,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Error:     err,
	}

	if err != nil {
		r.logger.Warn("job failed",
			slog.String("job", result.JobName),
			slog.Int("run", run),
			logger.Latency(result.Duration),
			logger.Err(err),
		)
	} else {
		r.logger.Debug("job completed",
			slog.String("job", result.JobName),
			slog.Int("run", run),
			logger.Latency(result.Duration),
		)
	}

	if r.onComplete != nil {
		r.onComplete(result)
	}
}
