package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
)

type LineupRepository struct {
	h handle
}

func (r *LineupRepository) List(_ context.Context, filter lineup.Filter) ([]lineup.Entry, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]lineup.Entry, 0)
	for _, e := range st.entries {
		if filter.UserID != "" && e.UserID != filter.UserID {
			continue
		}
		if filter.Day != 0 && e.Day != filter.Day {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LineupRepository) Upsert(_ context.Context, entry lineup.Entry) (bool, error) {
	st, release := r.h.acquire()
	defer release()

	for id, existing := range st.entries {
		if existing.UserID != entry.UserID || existing.Day != entry.Day || existing.PlayerID != entry.PlayerID {
			continue
		}
		if existing.Locked {
			return false, nil
		}
		existing.IsCaptain = entry.IsCaptain
		st.entries[id] = existing
		return true, nil
	}

	st.nextEntryID++
	st.entries[st.nextEntryID] = lineup.Entry{
		ID:        st.nextEntryID,
		UserID:    entry.UserID,
		Day:       entry.Day,
		PlayerID:  entry.PlayerID,
		IsCaptain: entry.IsCaptain,
	}
	return true, nil
}

func (r *LineupRepository) DeleteUnlocked(_ context.Context, entryIDs []int64) (int64, error) {
	st, release := r.h.acquire()
	defer release()

	var deleted int64
	for _, id := range entryIDs {
		if e, ok := st.entries[id]; ok && !e.Locked {
			delete(st.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *LineupRepository) UpdatePoints(_ context.Context, entryID int64, points float64) error {
	st, release := r.h.acquire()
	defer release()

	e, ok := st.entries[entryID]
	if !ok {
		return nil
	}
	e.Points = points
	st.entries[entryID] = e
	return nil
}

func (r *LineupRepository) LockStarted(_ context.Context, now time.Time) (int64, error) {
	st, release := r.h.acquire()
	defer release()

	var locked int64
	for id, e := range st.entries {
		if e.Locked {
			continue
		}
		p, ok := st.players[e.PlayerID]
		if !ok {
			continue
		}
		for _, m := range st.matches {
			if m.Day == e.Day && m.Involves(p.TeamAbbr) && !m.MatchTime.After(now) {
				e.Locked = true
				st.entries[id] = e
				locked++
				break
			}
		}
	}
	return locked, nil
}
