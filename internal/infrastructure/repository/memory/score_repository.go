package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
)

type ScoreRepository struct {
	h handle
}

func (r *ScoreRepository) UpsertDayScore(_ context.Context, score scoring.DayScore) error {
	st, release := r.h.acquire()
	defer release()

	st.scores[dayScoreKey{userID: score.UserID, day: score.Day}] = score
	return nil
}

func (r *ScoreRepository) ListDayScores(_ context.Context, filter scoring.Filter) ([]scoring.DayScore, error) {
	st, release := r.h.acquire()
	defer release()

	out := make([]scoring.DayScore, 0, len(st.scores))
	for _, s := range st.scores {
		if filter.UserID != "" && s.UserID != filter.UserID {
			continue
		}
		if filter.Day != 0 && s.Day != filter.Day {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
