package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
)

type MatchRepository struct {
	h handle
}

func (r *MatchRepository) List(_ context.Context, filter match.Filter) ([]match.Match, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]match.Match, 0, len(st.matches))
	for _, m := range st.matches {
		if filter.Day != 0 && m.Day != filter.Day {
			continue
		}
		if filter.Date != "" && m.Date != filter.Date {
			continue
		}
		if !filter.StartedAfter.IsZero() && m.MatchTime.Before(filter.StartedAfter) {
			continue
		}
		if !filter.StartedBefore.IsZero() && m.MatchTime.After(filter.StartedBefore) {
			continue
		}
		out = append(out, m)
	}
	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID int64) (match.Match, bool, error) {
	st, release := r.h.acquire()
	defer release()

	m, ok := st.matches[matchID]
	return m, ok, nil
}

func (r *MatchRepository) FindStartedForTeam(_ context.Context, team string, now time.Time) (match.Match, bool, error) {
	st, release := r.h.acquire()
	defer release()

	candidates := make([]match.Match, 0, 1)
	for _, m := range st.matches {
		if m.Involves(team) && m.Started(now) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return match.Match{}, false, nil
	}
	sortMatches(candidates)
	return candidates[0], true, nil
}

func (r *MatchRepository) Upsert(_ context.Context, m match.Match) (match.Match, error) {
	st, release := r.h.acquire()
	defer release()

	for id, existing := range st.matches {
		if existing.HomeTeam == m.HomeTeam && existing.AwayTeam == m.AwayTeam && existing.Day == m.Day {
			m.ID = id
			m.Status = existing.Status
			st.matches[id] = m
			return m, nil
		}
	}
	if m.Status == "" {
		m.Status = match.StatusUpcoming
	}
	st.nextMatchID++
	m.ID = st.nextMatchID
	st.matches[m.ID] = m
	return m, nil
}

func (r *MatchRepository) UpdateStatus(_ context.Context, matchID int64, status match.Status) error {
	st, release := r.h.acquire()
	defer release()

	m, ok := st.matches[matchID]
	if !ok {
		return nil
	}
	m.Status = status
	st.matches[matchID] = m
	return nil
}

func sortMatches(items []match.Match) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].MatchTime.Equal(items[j].MatchTime) {
			return items[i].MatchTime.Before(items[j].MatchTime)
		}
		return items[i].ID < items[j].ID
	})
}
