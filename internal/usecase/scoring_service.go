package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/cache"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/resilience"
)

const standingsCachePrefix = "standings:"

// DayCalculation summarizes one CalculateDay run.
type DayCalculation struct {
	Day           int
	Users         int
	EntriesScored int
	MissingStats  int
	CalculatedAt  time.Time
}

// Standing is one ranked user. ScoresByDay holds the day totals that make
// up TotalPoints.
type Standing struct {
	Rank        int
	UserID      string
	Username    string
	TotalPoints float64
	ScoresByDay map[int]float64
}

// UserDayDetail is one scored day of a user with its entries.
type UserDayDetail struct {
	Day          int
	TotalPoints  float64
	CalculatedAt time.Time
	Entries      []LineupEntryView
}

type ScoringService struct {
	store  store.Store
	rules  scoring.Rules
	cache  *cache.Store
	locks  *resilience.KeyedMutex
	logger *logging.Logger
	now    func() time.Time
}

func NewScoringService(st store.Store, rules scoring.Rules, standingsCache *cache.Store, logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScoringService{
		store:  st,
		rules:  rules,
		cache:  standingsCache,
		locks:  &resilience.KeyedMutex{},
		logger: logger,
		now:    time.Now,
	}
}

func (s *ScoringService) Rules() scoring.Rules {
	return s.rules
}

// CalculateDay scores every lineup entry of day and rewrites every user's
// day total. Runs for the same day are serialized, and a rerun over
// unchanged data writes identical values.
func (s *ScoringService) CalculateDay(ctx context.Context, day int) (DayCalculation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.CalculateDay")
	defer span.End()

	if day <= 0 {
		return DayCalculation{}, fmt.Errorf("%w: day must be greater than zero", ErrInvalidInput)
	}

	unlock := s.locks.Lock("scoring:day:" + strconv.Itoa(day))
	defer unlock()

	result := DayCalculation{Day: day, CalculatedAt: s.now().UTC()}
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		users, err := repos.Users.List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		stats, err := repos.Stats.ListByDay(ctx, day)
		if err != nil {
			return fmt.Errorf("list stats for day %d: %w", day, err)
		}
		statByPlayer := make(map[int64]playerstat.DayStat, len(stats))
		for _, st := range stats {
			if _, exists := statByPlayer[st.PlayerID]; !exists {
				statByPlayer[st.PlayerID] = st
			}
		}

		entries, err := repos.Lineups.List(ctx, lineup.Filter{Day: day})
		if err != nil {
			return fmt.Errorf("list lineups for day %d: %w", day, err)
		}
		entriesByUser := make(map[string][]lineup.Entry)
		for _, e := range entries {
			entriesByUser[e.UserID] = append(entriesByUser[e.UserID], e)
		}

		players, err := playersForEntries(ctx, repos, entries)
		if err != nil {
			return err
		}

		for _, u := range users {
			var total float64
			for _, e := range entriesByUser[u.ID] {
				var points float64
				if st, ok := statByPlayer[e.PlayerID]; ok {
					points = s.rules.Score(st.Line, players[e.PlayerID].Position, e.IsCaptain)
					if err := repos.Stats.UpdateFantasyPoints(ctx, st.ID, points); err != nil {
						return fmt.Errorf("store player fantasy points: %w", err)
					}
					result.EntriesScored++
				} else {
					result.MissingStats++
				}
				if err := repos.Lineups.UpdatePoints(ctx, e.ID, points); err != nil {
					return fmt.Errorf("store lineup entry points: %w", err)
				}
				total += points
			}

			if err := repos.Scores.UpsertDayScore(ctx, scoring.DayScore{
				UserID:       u.ID,
				Day:          day,
				TotalPoints:  scoring.Round2(total),
				CalculatedAt: result.CalculatedAt,
			}); err != nil {
				return fmt.Errorf("store day score: %w", err)
			}
		}
		result.Users = len(users)
		return nil
	})
	if err != nil {
		return DayCalculation{}, err
	}

	s.cache.DeletePrefix(ctx, standingsCachePrefix)
	s.logger.InfoContext(ctx, "day scores calculated",
		"day", day,
		"users", result.Users,
		"entries_scored", result.EntriesScored,
		"missing_stats", result.MissingStats,
	)
	return result, nil
}

// Standings ranks every user by the sum of their day totals.
func (s *ScoringService) Standings(ctx context.Context) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.Standings")
	defer span.End()

	items, err := cache.Load(ctx, s.cache, standingsCachePrefix+"all", func(ctx context.Context) ([]Standing, error) {
		return s.buildStandings(ctx, scoring.Filter{})
	})
	if err != nil {
		return nil, err
	}
	return cloneStandings(items), nil
}

// ScoresForDay ranks every user by their total for day. Users without a
// stored total count as zero.
func (s *ScoringService) ScoresForDay(ctx context.Context, day int) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoresForDay")
	defer span.End()

	if day <= 0 {
		return nil, fmt.Errorf("%w: day must be greater than zero", ErrInvalidInput)
	}

	items, err := cache.Load(ctx, s.cache, standingsCachePrefix+"day:"+strconv.Itoa(day), func(ctx context.Context) ([]Standing, error) {
		return s.buildStandings(ctx, scoring.Filter{Day: day})
	})
	if err != nil {
		return nil, err
	}
	return cloneStandings(items), nil
}

// MyScores returns every scored day of a user with the entries' cached
// points.
func (s *ScoringService) MyScores(ctx context.Context, userID string) ([]UserDayDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.MyScores")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	repos := s.store.Repositories()
	if _, exists, err := repos.Users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	scores, err := repos.Scores.ListDayScores(ctx, scoring.Filter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list day scores: %w", err)
	}
	views, err := loadLineupViews(ctx, repos, lineup.Filter{UserID: userID})
	if err != nil {
		return nil, err
	}
	entriesByDay := make(map[int][]LineupEntryView, len(views))
	for _, v := range views {
		entriesByDay[v.Day] = v.Entries
	}

	out := make([]UserDayDetail, 0, len(scores))
	for _, sc := range scores {
		entries := entriesByDay[sc.Day]
		if entries == nil {
			entries = []LineupEntryView{}
		}
		out = append(out, UserDayDetail{
			Day:          sc.Day,
			TotalPoints:  sc.TotalPoints,
			CalculatedAt: sc.CalculatedAt,
			Entries:      entries,
		})
	}
	return out, nil
}

// InvalidateStandings drops cached standings, e.g. after a user joins.
func (s *ScoringService) InvalidateStandings(ctx context.Context) {
	s.cache.DeletePrefix(ctx, standingsCachePrefix)
}

func (s *ScoringService) buildStandings(ctx context.Context, filter scoring.Filter) ([]Standing, error) {
	repos := s.store.Repositories()
	users, err := repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	scores, err := repos.Scores.ListDayScores(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list day scores: %w", err)
	}
	return rankStandings(users, scores, filter.Day), nil
}

// rankStandings sums scores per user and sorts descending by total. Ties
// keep the order of users. A non-zero day seeds every user with a zero
// total for that day.
func rankStandings(users []user.User, scores []scoring.DayScore, day int) []Standing {
	out := make([]Standing, 0, len(users))
	index := make(map[string]int, len(users))
	for _, u := range users {
		index[u.ID] = len(out)
		st := Standing{UserID: u.ID, Username: u.Username, ScoresByDay: map[int]float64{}}
		if day > 0 {
			st.ScoresByDay[day] = 0
		}
		out = append(out, st)
	}

	for _, sc := range scores {
		i, ok := index[sc.UserID]
		if !ok {
			continue
		}
		out[i].ScoresByDay[sc.Day] = sc.TotalPoints
		out[i].TotalPoints += sc.TotalPoints
	}

	for i := range out {
		out[i].TotalPoints = scoring.Round2(out[i].TotalPoints)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalPoints > out[j].TotalPoints
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func cloneStandings(items []Standing) []Standing {
	out := make([]Standing, 0, len(items))
	for _, item := range items {
		days := make(map[int]float64, len(item.ScoresByDay))
		for d, v := range item.ScoresByDay {
			days[d] = v
		}
		item.ScoresByDay = days
		out = append(out, item)
	}
	return out
}
