// Package scheduler runs the lineup lock sweep and the hourly scoring job on
// cron specs inside the API process.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
)

const defaultJobTimeout = 10 * time.Minute

var tracer = otel.Tracer("iihf-fantasy/internal/interfaces/scheduler")

// Jobs is the work the scheduler triggers; usecase.JobService implements it.
type Jobs interface {
	RunLockSweep(ctx context.Context) (int64, error)
	RunDailyScoring(ctx context.Context) (usecase.DailyScoringResult, error)
}

type Config struct {
	LockSpec    string
	ScoringSpec string
	// JobTimeout bounds one run of either job.
	JobTimeout time.Duration
	Location   *time.Location
}

type Scheduler struct {
	cron    *cron.Cron
	jobs    Jobs
	logger  *logging.Logger
	timeout time.Duration

	mu      sync.Mutex
	running bool
}

func New(jobs Jobs, cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if jobs == nil {
		return nil, errors.New("scheduler jobs are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	cronLogger := cronLogger{logger: logger.Named("cron")}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		jobs:    jobs,
		logger:  logger,
		timeout: cfg.JobTimeout,
	}

	if _, err := s.cron.AddFunc(cfg.LockSpec, s.runLockSweep); err != nil {
		return nil, fmt.Errorf("schedule lock sweep %q: %w", cfg.LockSpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.ScoringSpec, s.runDailyScoring); err != nil {
		return nil, fmt.Errorf("schedule daily scoring %q: %w", cfg.ScoringSpec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for running jobs: %w", ctx.Err())
	}
}

// NextRuns reports the next activation of every scheduled job.
func (s *Scheduler) NextRuns() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}

func (s *Scheduler) runLockSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "scheduler.lockSweep")
	defer span.End()

	locked, err := s.jobs.RunLockSweep(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled lock sweep failed", "error", err)
		return
	}
	if locked > 0 {
		s.logger.InfoContext(ctx, "scheduled lock sweep", "locked", locked)
	}
}

func (s *Scheduler) runDailyScoring() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "scheduler.dailyScoring")
	defer span.End()

	result, err := s.jobs.RunDailyScoring(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled daily scoring failed", "error", err)
		return
	}

	days := make([]int, 0, len(result.Days))
	for _, d := range result.Days {
		days = append(days, d.Day)
	}
	s.logger.InfoContext(ctx, "scheduled daily scoring", "locked", result.Locked, "days", days)
}

// cronLogger routes cron's own messages through the service logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
