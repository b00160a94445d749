package playerstat

// Line is the raw counting record of one player in one match. The zero
// value is a player who registered nothing.
type Line struct {
	Goals            int
	Assists          int
	PowerPlayGoals   int
	ShorthandedGoals int
	GameWinningGoals int
	PenaltyMinutes   int
	PlusMinus        int
	Saves            int
	GoalsAgainst     int
	Win              bool
}

// Stat is the stored (player, match) row. FantasyPoints is recomputed by
// every scoring pass and is not authoritative in between.
type Stat struct {
	ID            int64
	PlayerID      int64
	MatchID       int64
	Line          Line
	FantasyPoints float64
}

// DayStat is a Stat resolved against its match day.
type DayStat struct {
	Stat
	Day int
}
