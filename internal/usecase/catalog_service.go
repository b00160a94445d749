package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
)

type PlayerListInput struct {
	Position string
	Team     string
}

type PlayerService struct {
	store store.Store
	year  int
}

func NewPlayerService(st store.Store, championshipYear int) *PlayerService {
	return &PlayerService{store: st, year: championshipYear}
}

// List returns the configured championship's players ordered by team then
// name. Position accepts any feed spelling.
func (s *PlayerService) List(ctx context.Context, input PlayerListInput) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	filter := player.Filter{
		TeamAbbr:         strings.ToUpper(strings.TrimSpace(input.Team)),
		ChampionshipYear: s.year,
	}
	if raw := strings.TrimSpace(input.Position); raw != "" {
		pos, ok := player.NormalizePosition(raw)
		if !ok {
			return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidInput, raw)
		}
		filter.Position = pos
	}

	items, err := s.store.Repositories().Players.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return items, nil
}

type MatchService struct {
	store    store.Store
	location *time.Location
	now      func() time.Time
}

// NewMatchService builds the match reader; location decides which calendar
// day "today" is.
func NewMatchService(st store.Store, location *time.Location) *MatchService {
	if location == nil {
		location = time.UTC
	}
	return &MatchService{store: st, location: location, now: time.Now}
}

// List returns matches ordered by start time; day 0 lists every match.
func (s *MatchService) List(ctx context.Context, day int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	if day < 0 {
		return nil, fmt.Errorf("%w: day must not be negative", ErrInvalidInput)
	}
	items, err := s.store.Repositories().Matches.List(ctx, match.Filter{Day: day})
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

// Today returns matches scheduled on the current calendar date.
func (s *MatchService) Today(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Today")
	defer span.End()

	date := s.now().In(s.location).Format(match.DateLayout)
	items, err := s.store.Repositories().Matches.List(ctx, match.Filter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("list today's matches: %w", err)
	}
	return items, nil
}
