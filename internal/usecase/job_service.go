package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
)

const defaultScoringWindow = 5 * time.Hour

type JobConfig struct {
	// ScoringWindow is how far back a match start may lie for its day to
	// be rescored by the daily job.
	ScoringWindow time.Duration
}

type DailyScoringResult struct {
	Locked int64            `json:"locked"`
	Days   []DayCalculation `json:"days"`
}

type JobService struct {
	store   store.Store
	lineups *LineupService
	scoring *ScoringService
	cfg     JobConfig
	logger  *logging.Logger
	now     func() time.Time
}

func NewJobService(st store.Store, lineups *LineupService, scoringSvc *ScoringService, cfg JobConfig, logger *logging.Logger) *JobService {
	if cfg.ScoringWindow <= 0 {
		cfg.ScoringWindow = defaultScoringWindow
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &JobService{
		store:   st,
		lineups: lineups,
		scoring: scoringSvc,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *JobService) RunLockSweep(ctx context.Context) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService.RunLockSweep")
	defer span.End()

	return s.lineups.LockStarted(ctx)
}

// RunDailyScoring locks started entries, then recalculates every day that
// has a match started within the scoring window.
func (s *JobService) RunDailyScoring(ctx context.Context) (DailyScoringResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.JobService.RunDailyScoring")
	defer span.End()

	now := s.now().UTC()
	matches, err := s.store.Repositories().Matches.List(ctx, match.Filter{
		StartedAfter:  now.Add(-s.cfg.ScoringWindow),
		StartedBefore: now,
	})
	if err != nil {
		return DailyScoringResult{}, fmt.Errorf("list recently started matches: %w", err)
	}

	locked, err := s.lineups.LockStarted(ctx)
	if err != nil {
		return DailyScoringResult{}, err
	}

	result := DailyScoringResult{Locked: locked, Days: []DayCalculation{}}
	seen := make(map[int]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m.Day]; ok {
			continue
		}
		seen[m.Day] = struct{}{}

		calc, err := s.scoring.CalculateDay(ctx, m.Day)
		if err != nil {
			return result, fmt.Errorf("calculate day %d: %w", m.Day, err)
		}
		result.Days = append(result.Days, calc)
	}

	if len(result.Days) == 0 {
		s.logger.DebugContext(ctx, "daily scoring found no recent matches", "window", s.cfg.ScoringWindow.String())
	}
	return result, nil
}
