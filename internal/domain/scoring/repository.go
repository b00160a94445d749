package scoring

import "context"

// Filter narrows day score listings; zero values match everything.
type Filter struct {
	UserID string
	Day    int
}

type Repository interface {
	// UpsertDayScore is keyed on (user, day).
	UpsertDayScore(ctx context.Context, score DayScore) error
	// ListDayScores orders by day, then user id.
	ListDayScores(ctx context.Context, filter Filter) ([]DayScore, error)
}
