package iihf

import (
	"io"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
)

// ScheduleOptions supplies what the schedule export leaves out: the
// championship year and the zone its wall-clock times are written in.
type ScheduleOptions struct {
	Year     int
	Location *time.Location
}

// ReadSchedule parses match_urls.csv:
// Day,date,time,home_team,away_team,url_playbyplay,url_statistics with
// dates like "10 May" and times like "16:20". Match times are returned in
// UTC; Date keeps the local calendar date.
func ReadSchedule(r io.Reader, opts ScheduleOptions) ([]match.Match, error) {
	if opts.Year <= 0 {
		return nil, crerr.New("schedule year is required")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	t, err := readTable("schedule", r, "day", "date", "time", "home_team", "away_team")
	if err != nil {
		return nil, err
	}

	out := make([]match.Match, 0, len(t.rows))
	for idx, row := range t.rows {
		if blank(row) {
			continue
		}
		line := idx + 2

		day, err := parseCount(t.value(row, "day"))
		if err != nil {
			return nil, crerr.Wrapf(err, "schedule row %d: day", line)
		}
		start, err := parseKickoff(t.value(row, "date"), t.value(row, "time"), opts.Year, loc)
		if err != nil {
			return nil, crerr.Wrapf(err, "schedule row %d", line)
		}

		out = append(out, match.Match{
			Day:           day,
			Date:          start.Format(match.DateLayout),
			MatchTime:     start.UTC(),
			HomeTeam:      strings.ToUpper(t.value(row, "home_team")),
			AwayTeam:      strings.ToUpper(t.value(row, "away_team")),
			Status:        match.StatusUpcoming,
			URLPlayByPlay: t.value(row, "url_playbyplay"),
			URLStatistics: t.value(row, "url_statistics"),
		})
	}
	return out, nil
}

var kickoffLayouts = []string{"2 Jan 15:04 2006", "2 January 15:04 2006"}

func parseKickoff(date, clock string, year int, loc *time.Location) (time.Time, error) {
	raw := strings.Join(strings.Fields(date), " ") + " " + strings.TrimSpace(clock) + " " + strconv.Itoa(year)
	for _, layout := range kickoffLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, crerr.Newf("invalid kickoff %q %q", date, clock)
}
