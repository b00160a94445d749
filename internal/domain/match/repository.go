package match

import (
	"context"
	"time"
)

// Filter narrows match listings; zero values match everything.
type Filter struct {
	Day  int
	Date string
	// StartedAfter/StartedBefore bound match_time inclusively when set.
	StartedAfter  time.Time
	StartedBefore time.Time
}

type Repository interface {
	// List orders by match time, then id.
	List(ctx context.Context, filter Filter) ([]Match, error)
	GetByID(ctx context.Context, matchID int64) (Match, bool, error)
	// FindStartedForTeam returns any non-completed match of team whose start
	// time is at or before now.
	FindStartedForTeam(ctx context.Context, team string, now time.Time) (Match, bool, error)
	// Upsert is keyed on (home, away, day) and keeps the stored status.
	Upsert(ctx context.Context, m Match) (Match, error)
	UpdateStatus(ctx context.Context, matchID int64, status Status) error
}
