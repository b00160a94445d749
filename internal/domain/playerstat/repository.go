package playerstat

import "context"

type Repository interface {
	// ListByDay returns stats of every match on day ordered by match id,
	// then player id.
	ListByDay(ctx context.Context, day int) ([]DayStat, error)
	ListByMatch(ctx context.Context, matchID int64) ([]Stat, error)
	// Upsert is keyed on (player, match) and leaves FantasyPoints alone.
	Upsert(ctx context.Context, stat Stat) error
	UpdateFantasyPoints(ctx context.Context, statID int64, points float64) error
}
