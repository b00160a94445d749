package scoring

import "time"

// DayScore is one user's summed points for one day. It is derived data and
// is rewritten by every scoring pass for that day.
type DayScore struct {
	UserID       string
	Day          int
	TotalPoints  float64
	CalculatedAt time.Time
}
