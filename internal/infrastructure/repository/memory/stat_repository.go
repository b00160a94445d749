package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
)

type StatRepository struct {
	h handle
}

func (r *StatRepository) ListByDay(_ context.Context, day int) ([]playerstat.DayStat, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]playerstat.DayStat, 0)
	for _, s := range st.stats {
		m, ok := st.matches[s.MatchID]
		if !ok || m.Day != day {
			continue
		}
		out = append(out, playerstat.DayStat{Stat: s, Day: m.Day})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

func (r *StatRepository) ListByMatch(_ context.Context, matchID int64) ([]playerstat.Stat, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]playerstat.Stat, 0)
	for _, s := range st.stats {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (r *StatRepository) Upsert(_ context.Context, s playerstat.Stat) error {
	st, release := r.h.acquire()
	defer release()

	for id, existing := range st.stats {
		if existing.PlayerID == s.PlayerID && existing.MatchID == s.MatchID {
			existing.Line = s.Line
			st.stats[id] = existing
			return nil
		}
	}
	st.nextStatID++
	s.ID = st.nextStatID
	s.FantasyPoints = 0
	st.stats[s.ID] = s
	return nil
}

func (r *StatRepository) UpdateFantasyPoints(_ context.Context, statID int64, points float64) error {
	st, release := r.h.acquire()
	defer release()

	s, ok := st.stats[statID]
	if !ok {
		return nil
	}
	s.FantasyPoints = points
	st.stats[statID] = s
	return nil
}
