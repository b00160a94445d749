package lineup

import (
	"context"
	"time"
)

// Filter narrows entry listings; zero values match everything.
type Filter struct {
	UserID string
	Day    int
}

// Repository exposes lineup persistence operations.
type Repository interface {
	// List orders by user, day, then entry id.
	List(ctx context.Context, filter Filter) ([]Entry, error)
	// Upsert inserts the entry unlocked, or updates captaincy of an existing
	// unlocked entry. Locked entries are left untouched. It reports whether
	// a row was written.
	Upsert(ctx context.Context, entry Entry) (bool, error)
	// DeleteUnlocked removes the listed entries that are still unlocked and
	// reports how many went.
	DeleteUnlocked(ctx context.Context, entryIDs []int64) (int64, error)
	UpdatePoints(ctx context.Context, entryID int64, points float64) error
	// LockStarted locks every unlocked entry whose player's team has a match
	// on the entry's day starting at or before now.
	LockStarted(ctx context.Context, now time.Time) (int64, error)
}
