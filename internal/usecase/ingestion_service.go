package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
)

const defaultImportWorkers = 4

// ImportReport counts one import. Warnings describe skipped or corrected
// rows; they never abort the import.
type ImportReport struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
}

func (r *ImportReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// MatchStatRecord is one stats feed row keyed by player name.
type MatchStatRecord struct {
	PlayerName string
	Line       playerstat.Line
}

type MatchStatsBatch struct {
	MatchID int64
	Records []MatchStatRecord
}

type MatchStatsResult struct {
	MatchID int64        `json:"match_id"`
	Report  ImportReport `json:"report"`
	Error   string       `json:"error,omitempty"`
}

type StatsBatchResult struct {
	Matches      []MatchStatsResult `json:"matches"`
	SuccessCount int                `json:"success_count"`
	FailedCount  int                `json:"failed_count"`
	WorkerCount  int                `json:"worker_count"`
}

type IngestionService struct {
	store   store.Store
	workers int
	logger  *logging.Logger
}

func NewIngestionService(st store.Store, workers int, logger *logging.Logger) *IngestionService {
	if workers <= 0 {
		workers = defaultImportWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{store: st, workers: workers, logger: logger}
}

// ImportPlayers upserts a roster for year. Feed position spellings are
// normalized; unknown spellings import as Forward with a warning.
func (s *IngestionService) ImportPlayers(ctx context.Context, year int, players []player.Player) (ImportReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportPlayers")
	defer span.End()

	if year <= 0 {
		return ImportReport{}, fmt.Errorf("%w: championship year is required", ErrInvalidInput)
	}

	report := ImportReport{Total: len(players), Warnings: []string{}}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		for idx, p := range players {
			p.Name = strings.TrimSpace(p.Name)
			p.TeamAbbr = strings.ToUpper(strings.TrimSpace(p.TeamAbbr))
			p.ChampionshipYear = year

			pos, known := player.NormalizePosition(string(p.Position))
			if !known {
				report.warn("row %d: unknown position %q for %s, imported as %s", idx+1, p.Position, p.Name, pos)
			}
			p.Position = pos

			if err := p.Validate(); err != nil {
				report.Skipped++
				report.warn("row %d: %v", idx+1, err)
				continue
			}
			if _, err := repos.Players.Upsert(ctx, p); err != nil {
				return fmt.Errorf("import player %s: %w", p.Name, err)
			}
			report.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}

	s.logReport(ctx, "players imported", report)
	return report, nil
}

// ImportMatches upserts schedule rows. Re-importing a match keeps its
// stored status.
func (s *IngestionService) ImportMatches(ctx context.Context, matches []match.Match) (ImportReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportMatches")
	defer span.End()

	report := ImportReport{Total: len(matches), Warnings: []string{}}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		for idx, m := range matches {
			m.HomeTeam = strings.ToUpper(strings.TrimSpace(m.HomeTeam))
			m.AwayTeam = strings.ToUpper(strings.TrimSpace(m.AwayTeam))
			if m.Status == "" {
				m.Status = match.StatusUpcoming
			}
			m.MatchTime = m.MatchTime.UTC()

			if err := m.Validate(); err != nil {
				report.Skipped++
				report.warn("row %d: %v", idx+1, err)
				continue
			}
			if _, err := repos.Matches.Upsert(ctx, m); err != nil {
				return fmt.Errorf("import match %s-%s: %w", m.HomeTeam, m.AwayTeam, err)
			}
			report.Imported++
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}

	s.logReport(ctx, "matches imported", report)
	return report, nil
}

// ImportMatchStats stores the stat lines of one match and marks it
// completed. Rows naming a player missing from the year's roster are
// skipped with a warning.
func (s *IngestionService) ImportMatchStats(ctx context.Context, matchID int64, year int, records []MatchStatRecord) (ImportReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportMatchStats")
	defer span.End()

	if matchID <= 0 || year <= 0 {
		return ImportReport{}, fmt.Errorf("%w: match id and championship year are required", ErrInvalidInput)
	}

	report := ImportReport{Total: len(records), Warnings: []string{}}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, exists, err := repos.Matches.GetByID(ctx, matchID); err != nil {
			return fmt.Errorf("get match: %w", err)
		} else if !exists {
			return fmt.Errorf("%w: match=%d", ErrNotFound, matchID)
		}

		for _, rec := range records {
			name := strings.TrimSpace(rec.PlayerName)
			p, found, err := repos.Players.FindByName(ctx, name, year)
			if err != nil {
				return fmt.Errorf("find player %s: %w", name, err)
			}
			if !found {
				report.Skipped++
				report.warn("player %q not found in %d roster", name, year)
				continue
			}
			if err := repos.Stats.Upsert(ctx, playerstat.Stat{PlayerID: p.ID, MatchID: matchID, Line: rec.Line}); err != nil {
				return fmt.Errorf("import stat for %s: %w", name, err)
			}
			report.Imported++
		}

		if err := repos.Matches.UpdateStatus(ctx, matchID, match.StatusCompleted); err != nil {
			return fmt.Errorf("complete match: %w", err)
		}
		return nil
	})
	if err != nil {
		return ImportReport{}, err
	}

	s.logReport(ctx, "match stats imported", report, "match_id", matchID)
	return report, nil
}

// ImportStatsBatch imports several matches concurrently. A failed match is
// reported in its result and does not stop the others.
func (s *IngestionService) ImportStatsBatch(ctx context.Context, year int, batches []MatchStatsBatch) (StatsBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportStatsBatch")
	defer span.End()

	if len(batches) == 0 {
		return StatsBatchResult{}, fmt.Errorf("%w: at least one match is required", ErrInvalidInput)
	}

	workerCount := min(s.workers, len(batches))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return StatsBatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		workers      sync.WaitGroup
		successCount atomic.Int32
		failedCount  atomic.Int32
	)
	results := make([]MatchStatsResult, len(batches))
	for idx, batch := range batches {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := MatchStatsResult{MatchID: batch.MatchID}
			report, err := s.ImportMatchStats(ctx, batch.MatchID, year, batch.Records)
			if err != nil {
				row.Error = err.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "match stats import failed", "match_id", batch.MatchID, "error", err)
			} else {
				row.Report = report
				successCount.Add(1)
			}
			results[idx] = row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return StatsBatchResult{}, fmt.Errorf("submit stats import to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.SliceStable(results, func(i, j int) bool { return results[i].MatchID < results[j].MatchID })
	return StatsBatchResult{
		Matches:      results,
		SuccessCount: int(successCount.Load()),
		FailedCount:  int(failedCount.Load()),
		WorkerCount:  workerCount,
	}, nil
}

func (s *IngestionService) logReport(ctx context.Context, msg string, report ImportReport, args ...any) {
	args = append(args, "total", report.Total, "imported", report.Imported, "skipped", report.Skipped)
	s.logger.InfoContext(ctx, msg, args...)
	for _, w := range report.Warnings {
		s.logger.WarnContext(ctx, "import warning", "warning", w)
	}
}
