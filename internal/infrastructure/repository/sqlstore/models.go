package sqlstore

type userTableModel struct {
	ID           string `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}

type playerTableModel struct {
	ID               int64  `db:"id,omitinsert"`
	Name             string `db:"name"`
	Position         string `db:"position"`
	TeamAbbr         string `db:"team_abbr"`
	ChampionshipYear int    `db:"championship_year"`
}

type matchTableModel struct {
	ID            int64  `db:"id,omitinsert"`
	Day           int    `db:"day"`
	MatchDate     string `db:"match_date"`
	MatchTime     int64  `db:"match_time"`
	HomeTeam      string `db:"home_team"`
	AwayTeam      string `db:"away_team"`
	Status        string `db:"status"`
	URLPlayByPlay string `db:"url_playbyplay"`
	URLStatistics string `db:"url_statistics"`
}

type playerStatTableModel struct {
	ID               int64   `db:"id,omitinsert"`
	PlayerID         int64   `db:"player_id"`
	MatchID          int64   `db:"match_id"`
	Goals            int     `db:"goals"`
	Assists          int     `db:"assists"`
	PowerPlayGoals   int     `db:"ppg"`
	ShorthandedGoals int     `db:"shg"`
	GameWinningGoals int     `db:"gwg"`
	PenaltyMinutes   int     `db:"pim"`
	PlusMinus        int     `db:"plus_minus"`
	Saves            int     `db:"saves"`
	GoalsAgainst     int     `db:"goals_against"`
	Win              bool    `db:"win"`
	FantasyPoints    float64 `db:"fantasy_points,omitinsert"`
}

type dayStatRow struct {
	playerStatTableModel
	Day int `db:"day"`
}

type lineupTableModel struct {
	ID            int64   `db:"id"`
	UserID        string  `db:"user_id"`
	Day           int     `db:"day"`
	PlayerID      int64   `db:"player_id"`
	IsCaptain     bool    `db:"is_captain"`
	Locked        bool    `db:"locked"`
	FantasyPoints float64 `db:"fantasy_points"`
}

type lineupInsertModel struct {
	UserID    string `db:"user_id"`
	Day       int    `db:"day"`
	PlayerID  int64  `db:"player_id"`
	IsCaptain bool   `db:"is_captain"`
}

type dayScoreTableModel struct {
	UserID       string  `db:"user_id"`
	Day          int     `db:"day"`
	TotalPoints  float64 `db:"total_points"`
	CalculatedAt int64   `db:"calculated_at"`
}
