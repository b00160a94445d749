package iihf

import (
	"io"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
)

// StatRow is one player line of a match statistics export.
type StatRow struct {
	PlayerName string
	Team       string
	Position   player.Position
	Line       playerstat.Line
}

var statColumns = []struct {
	name string
	set  func(*playerstat.Line, int)
}{
	{"Goals", func(l *playerstat.Line, v int) { l.Goals = v }},
	{"Assists", func(l *playerstat.Line, v int) { l.Assists = v }},
	{"Penalty Minutes", func(l *playerstat.Line, v int) { l.PenaltyMinutes = v }},
	{"Plus Minus", func(l *playerstat.Line, v int) { l.PlusMinus = v }},
	{"Goals Against", func(l *playerstat.Line, v int) { l.GoalsAgainst = v }},
	{"Saves", func(l *playerstat.Line, v int) { l.Saves = v }},
	{"Shorthanded Goal", func(l *playerstat.Line, v int) { l.ShorthandedGoals = v }},
	{"Power Play Goal", func(l *playerstat.Line, v int) { l.PowerPlayGoals = v }},
	{"Game Winning Goal", func(l *playerstat.Line, v int) { l.GameWinningGoals = v }},
}

// ReadMatchStats parses a match statistics export. Missing stat columns
// read as zero. A goalkeeper with no saves did not play and gets an
// all-zero line.
func ReadMatchStats(r io.Reader) ([]StatRow, error) {
	t, err := readTable("stats", r, "Player")
	if err != nil {
		return nil, err
	}

	out := make([]StatRow, 0, len(t.rows))
	for idx, row := range t.rows {
		if blank(row) {
			continue
		}
		line := idx + 2

		name := t.value(row, "Player")
		if name == "" {
			return nil, crerr.Newf("stats row %d: player is empty", line)
		}
		rec := StatRow{PlayerName: name, Team: t.value(row, "Team")}
		if raw := t.value(row, "Position"); raw != "" {
			rec.Position, _ = player.NormalizePosition(raw)
		}

		for _, col := range statColumns {
			if !t.has(col.name) {
				continue
			}
			v, err := parseCount(t.value(row, col.name))
			if err != nil {
				return nil, crerr.Wrapf(err, "stats row %d: column %q", line, col.name)
			}
			col.set(&rec.Line, v)
		}
		win, err := parseFlag(t.value(row, "Win"))
		if err != nil {
			return nil, crerr.Wrapf(err, "stats row %d: column %q", line, "Win")
		}
		rec.Line.Win = win

		if rec.Position == player.PositionGoalkeeper && rec.Line.Saves == 0 {
			rec.Line = playerstat.Line{}
		}
		out = append(out, rec)
	}
	return out, nil
}
