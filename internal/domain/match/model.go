package match

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

// DateLayout is the calendar date format stored with every match.
const DateLayout = "2006-01-02"

// Match is one scheduled game. Day groups matches into a scoring period.
type Match struct {
	ID            int64
	Day           int
	Date          string
	MatchTime     time.Time
	HomeTeam      string
	AwayTeam      string
	Status        Status
	URLPlayByPlay string
	URLStatistics string
}

// Started reports whether the match locks lineups at now: it has not
// finished and its scheduled start is not in the future.
func (m Match) Started(now time.Time) bool {
	return m.Status != StatusCompleted && !m.MatchTime.After(now)
}

// Involves reports whether team plays in the match.
func (m Match) Involves(team string) bool {
	return team != "" && (m.HomeTeam == team || m.AwayTeam == team)
}

func (m Match) Validate() error {
	if m.Day <= 0 {
		return fmt.Errorf("match day must be greater than zero")
	}
	if strings.TrimSpace(m.HomeTeam) == "" || strings.TrimSpace(m.AwayTeam) == "" {
		return fmt.Errorf("match teams are required")
	}
	if m.MatchTime.IsZero() {
		return fmt.Errorf("match time is required")
	}
	if _, err := time.Parse(DateLayout, m.Date); err != nil {
		return fmt.Errorf("invalid match date %q: %w", m.Date, err)
	}
	switch m.Status {
	case StatusUpcoming, StatusLive, StatusCompleted:
	default:
		return fmt.Errorf("invalid match status: %s", m.Status)
	}

	return nil
}
