package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/fantasy"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/store"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/resilience"
)

type SaveLineupInput struct {
	UserID     string
	Day        int
	Selections []lineup.Selection
}

// LineupEntryView is a stored entry joined with its player.
type LineupEntryView struct {
	EntryID   int64
	Player    player.Player
	IsCaptain bool
	Locked    bool
	Points    float64
}

type LineupView struct {
	UserID  string
	Day     int
	Entries []LineupEntryView
}

type LineupService struct {
	store  store.Store
	limits fantasy.SlotLimits
	locks  *resilience.KeyedMutex
	logger *logging.Logger
	now    func() time.Time
}

func NewLineupService(st store.Store, limits fantasy.SlotLimits, logger *logging.Logger) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{
		store:  st,
		limits: limits,
		locks:  &resilience.KeyedMutex{},
		logger: logger,
		now:    time.Now,
	}
}

func (s *LineupService) SlotLimits() fantasy.SlotLimits {
	return s.limits
}

// Save validates a submission and makes it the user's lineup for the day.
// Unlocked entries missing from the submission are removed; locked entries
// stay as stored. Every check runs before the first write, so a rejected
// submission leaves the stored lineup unchanged. Rejections are
// *fantasy.LineupError values.
func (s *LineupService) Save(ctx context.Context, input SaveLineupInput) (LineupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Save")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return LineupView{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if input.Day <= 0 {
		return LineupView{}, fmt.Errorf("%w: day must be greater than zero", ErrInvalidInput)
	}

	unlock := s.locks.Lock(input.UserID + ":" + strconv.Itoa(input.Day))
	defer unlock()

	var (
		view    LineupView
		written int
		removed int64
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, exists, err := repos.Users.GetByID(ctx, input.UserID); err != nil {
			return fmt.Errorf("get user: %w", err)
		} else if !exists {
			return fmt.Errorf("%w: user=%s", ErrNotFound, input.UserID)
		}

		stored, err := repos.Lineups.List(ctx, lineup.Filter{UserID: input.UserID, Day: input.Day})
		if err != nil {
			return fmt.Errorf("list stored lineup: %w", err)
		}

		ids := make([]int64, 0, len(input.Selections)+len(stored))
		for _, sel := range input.Selections {
			ids = append(ids, sel.PlayerID)
		}
		for _, e := range stored {
			if e.Locked {
				ids = append(ids, e.PlayerID)
			}
		}
		players, err := repos.Players.GetByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("get selected players: %w", err)
		}
		roster := make(map[int64]player.Player, len(players))
		for _, p := range players {
			roster[p.ID] = p
		}

		if err := fantasy.ValidateSelections(input.Selections, roster, s.limits); err != nil {
			return err
		}

		now := s.now().UTC()
		for _, sel := range input.Selections {
			p := roster[sel.PlayerID]
			_, started, err := repos.Matches.FindStartedForTeam(ctx, p.TeamAbbr, now)
			if err != nil {
				return fmt.Errorf("check lock for player=%d: %w", p.ID, err)
			}
			if started {
				return fantasy.Locked(p)
			}
		}

		// Locked entries survive a resubmission as stored, so the lineup
		// that results must pass the same checks.
		if err := fantasy.ValidateSelections(withLockedEntries(stored, input.Selections), roster, s.limits); err != nil {
			return err
		}

		submitted := make(map[int64]struct{}, len(input.Selections))
		for _, sel := range input.Selections {
			submitted[sel.PlayerID] = struct{}{}
		}
		stale := make([]int64, 0, len(stored))
		for _, e := range stored {
			if _, ok := submitted[e.PlayerID]; !ok && !e.Locked {
				stale = append(stale, e.ID)
			}
		}
		if removed, err = repos.Lineups.DeleteUnlocked(ctx, stale); err != nil {
			return fmt.Errorf("remove replaced lineup entries: %w", err)
		}

		for _, sel := range input.Selections {
			ok, err := repos.Lineups.Upsert(ctx, lineup.Entry{
				UserID:    input.UserID,
				Day:       input.Day,
				PlayerID:  sel.PlayerID,
				IsCaptain: sel.IsCaptain,
			})
			if err != nil {
				return fmt.Errorf("save lineup entry: %w", err)
			}
			if ok {
				written++
			}
		}

		views, err := loadLineupViews(ctx, repos, lineup.Filter{UserID: input.UserID, Day: input.Day})
		if err != nil {
			return err
		}
		view = LineupView{UserID: input.UserID, Day: input.Day, Entries: []LineupEntryView{}}
		if len(views) > 0 {
			view = views[0]
		}
		return nil
	})
	if err != nil {
		return LineupView{}, err
	}

	s.logger.InfoContext(ctx, "lineup saved",
		"user_id", input.UserID,
		"day", input.Day,
		"selections", len(input.Selections),
		"written", written,
		"removed", removed,
	)
	return view, nil
}

// withLockedEntries is the lineup a submission would leave behind: the
// locked entries with their stored captaincy plus every other selection.
func withLockedEntries(stored []lineup.Entry, selections []lineup.Selection) []lineup.Selection {
	out := make([]lineup.Selection, 0, len(stored)+len(selections))
	locked := make(map[int64]struct{}, len(stored))
	for _, e := range stored {
		if e.Locked {
			locked[e.PlayerID] = struct{}{}
			out = append(out, lineup.Selection{PlayerID: e.PlayerID, IsCaptain: e.IsCaptain})
		}
	}
	for _, sel := range selections {
		if _, ok := locked[sel.PlayerID]; !ok {
			out = append(out, sel)
		}
	}
	return out
}

// Get returns the saved entries of one user and day, possibly none.
func (s *LineupService) Get(ctx context.Context, userID string, day int) (LineupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" || day <= 0 {
		return LineupView{}, fmt.Errorf("%w: user_id and a positive day are required", ErrInvalidInput)
	}

	views, err := loadLineupViews(ctx, s.store.Repositories(), lineup.Filter{UserID: userID, Day: day})
	if err != nil {
		return LineupView{}, err
	}
	if len(views) == 0 {
		return LineupView{UserID: userID, Day: day, Entries: []LineupEntryView{}}, nil
	}
	return views[0], nil
}

// ListByDay returns every user's lineup for day, grouped per user.
func (s *LineupService) ListByDay(ctx context.Context, day int) ([]LineupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.ListByDay")
	defer span.End()

	if day <= 0 {
		return nil, fmt.Errorf("%w: day must be greater than zero", ErrInvalidInput)
	}
	return loadLineupViews(ctx, s.store.Repositories(), lineup.Filter{Day: day})
}

// LockStarted flips locked on every entry whose match has started.
func (s *LineupService) LockStarted(ctx context.Context) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.LockStarted")
	defer span.End()

	var locked int64
	err := s.store.WithinTx(ctx, func(ctx context.Context, repos store.Repositories) error {
		n, err := repos.Lineups.LockStarted(ctx, s.now().UTC())
		if err != nil {
			return fmt.Errorf("lock started lineup entries: %w", err)
		}
		locked = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if locked > 0 {
		s.logger.InfoContext(ctx, "lineup entries locked", "count", locked)
	}
	return locked, nil
}

// loadLineupViews lists entries for filter and groups them per (user, day)
// in repository order.
func loadLineupViews(ctx context.Context, repos store.Repositories, filter lineup.Filter) ([]LineupView, error) {
	entries, err := repos.Lineups.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lineup entries: %w", err)
	}
	if len(entries) == 0 {
		return []LineupView{}, nil
	}

	players, err := playersForEntries(ctx, repos, entries)
	if err != nil {
		return nil, err
	}

	out := make([]LineupView, 0)
	for _, e := range entries {
		if len(out) == 0 || out[len(out)-1].UserID != e.UserID || out[len(out)-1].Day != e.Day {
			out = append(out, LineupView{UserID: e.UserID, Day: e.Day})
		}
		last := &out[len(out)-1]
		last.Entries = append(last.Entries, LineupEntryView{
			EntryID:   e.ID,
			Player:    players[e.PlayerID],
			IsCaptain: e.IsCaptain,
			Locked:    e.Locked,
			Points:    e.Points,
		})
	}
	return out, nil
}

func playersForEntries(ctx context.Context, repos store.Repositories, entries []lineup.Entry) (map[int64]player.Player, error) {
	ids := make([]int64, 0, len(entries))
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.PlayerID]; ok {
			continue
		}
		seen[e.PlayerID] = struct{}{}
		ids = append(ids, e.PlayerID)
	}

	players, err := repos.Players.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get lineup players: %w", err)
	}
	out := make(map[int64]player.Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out, nil
}
