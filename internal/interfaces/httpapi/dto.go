package httpapi

import (
	"strconv"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/user"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
)

type registerUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type lineupSelectionRequest struct {
	PlayerID  int64 `json:"player_id" validate:"required,gt=0"`
	IsCaptain bool  `json:"is_captain"`
}

type saveLineupRequest struct {
	Players []lineupSelectionRequest `json:"players" validate:"dive"`
}

type importPlayerRequest struct {
	Name     string `json:"name" validate:"required"`
	Position string `json:"position"`
	TeamAbbr string `json:"team_abbr" validate:"required"`
}

type importPlayersRequest struct {
	ChampionshipYear int                   `json:"championship_year" validate:"omitempty,gte=1900"`
	Players          []importPlayerRequest `json:"players" validate:"required,dive"`
}

type importMatchRequest struct {
	Day           int       `json:"day" validate:"required,gt=0"`
	Date          string    `json:"date" validate:"required"`
	MatchTime     time.Time `json:"match_time"`
	HomeTeam      string    `json:"home_team" validate:"required"`
	AwayTeam      string    `json:"away_team" validate:"required"`
	URLPlayByPlay string    `json:"url_playbyplay"`
	URLStatistics string    `json:"url_statistics"`
}

type importMatchesRequest struct {
	Matches []importMatchRequest `json:"matches" validate:"required,dive"`
}

type importStatRequest struct {
	Player           string `json:"player" validate:"required"`
	Goals            int    `json:"goals" validate:"gte=0"`
	Assists          int    `json:"assists" validate:"gte=0"`
	PowerPlayGoals   int    `json:"power_play_goals" validate:"gte=0"`
	ShorthandedGoals int    `json:"shorthanded_goals" validate:"gte=0"`
	GameWinningGoals int    `json:"game_winning_goals" validate:"gte=0"`
	PenaltyMinutes   int    `json:"penalty_minutes" validate:"gte=0"`
	PlusMinus        int    `json:"plus_minus"`
	Saves            int    `json:"saves" validate:"gte=0"`
	GoalsAgainst     int    `json:"goals_against" validate:"gte=0"`
	Win              bool   `json:"win"`
}

type importStatsRequest struct {
	ChampionshipYear int                 `json:"championship_year" validate:"omitempty,gte=1900"`
	Stats            []importStatRequest `json:"stats" validate:"required,dive"`
}

type playerDTO struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Position         string `json:"position"`
	TeamAbbr         string `json:"team_abbr"`
	ChampionshipYear int    `json:"championship_year"`
}

type matchDTO struct {
	ID            int64  `json:"id"`
	Day           int    `json:"day"`
	Date          string `json:"date"`
	MatchTime     string `json:"match_time"`
	HomeTeam      string `json:"home_team"`
	AwayTeam      string `json:"away_team"`
	Status        string `json:"status"`
	URLPlayByPlay string `json:"url_playbyplay,omitempty"`
	URLStatistics string `json:"url_statistics,omitempty"`
}

type userDTO struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"created_at"`
}

type lineupEntryDTO struct {
	EntryID   int64     `json:"entry_id"`
	Player    playerDTO `json:"player"`
	IsCaptain bool      `json:"is_captain"`
	Locked    bool      `json:"locked"`
	Points    float64   `json:"points"`
}

type lineupDTO struct {
	UserID  string           `json:"user_id"`
	Day     int              `json:"day"`
	Entries []lineupEntryDTO `json:"entries"`
}

type standingDTO struct {
	Rank        int                `json:"rank"`
	UserID      string             `json:"user_id"`
	Username    string             `json:"username"`
	TotalPoints float64            `json:"total_points"`
	ScoresByDay map[string]float64 `json:"scores_by_day"`
}

type userDayScoreDTO struct {
	Day          int              `json:"day"`
	TotalPoints  float64          `json:"total_points"`
	CalculatedAt string           `json:"calculated_at"`
	Entries      []lineupEntryDTO `json:"entries"`
}

type dayCalculationDTO struct {
	Day           int    `json:"day"`
	Users         int    `json:"users"`
	EntriesScored int    `json:"entries_scored"`
	MissingStats  int    `json:"missing_stats"`
	CalculatedAt  string `json:"calculated_at"`
}

type dailyScoringDTO struct {
	Locked int64               `json:"locked"`
	Days   []dayCalculationDTO `json:"days"`
}

type slotLimitDTO struct {
	Position string `json:"position"`
	Max      int    `json:"max"`
}

type championshipDTO struct {
	Year              int                        `json:"year"`
	URL               string                     `json:"url,omitempty"`
	SlotLimits        []slotLimitDTO             `json:"slot_limits"`
	CaptainMultiplier float64                    `json:"captain_multiplier"`
	Weights           map[string]scoring.Weights `json:"weights"`
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:               v.ID,
		Name:             v.Name,
		Position:         string(v.Position),
		TeamAbbr:         v.TeamAbbr,
		ChampionshipYear: v.ChampionshipYear,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchDTO{
			ID:            m.ID,
			Day:           m.Day,
			Date:          m.Date,
			MatchTime:     formatTime(m.MatchTime),
			HomeTeam:      m.HomeTeam,
			AwayTeam:      m.AwayTeam,
			Status:        string(m.Status),
			URLPlayByPlay: m.URLPlayByPlay,
			URLStatistics: m.URLStatistics,
		})
	}
	return out
}

func userToDTO(v user.User) userDTO {
	return userDTO{ID: v.ID, Username: v.Username, Email: v.Email, CreatedAt: formatTime(v.CreatedAt)}
}

func entriesToDTO(items []usecase.LineupEntryView) []lineupEntryDTO {
	out := make([]lineupEntryDTO, 0, len(items))
	for _, e := range items {
		out = append(out, lineupEntryDTO{
			EntryID:   e.EntryID,
			Player:    playerToDTO(e.Player),
			IsCaptain: e.IsCaptain,
			Locked:    e.Locked,
			Points:    e.Points,
		})
	}
	return out
}

func lineupToDTO(v usecase.LineupView) lineupDTO {
	return lineupDTO{UserID: v.UserID, Day: v.Day, Entries: entriesToDTO(v.Entries)}
}

func standingsToDTO(items []usecase.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, s := range items {
		days := make(map[string]float64, len(s.ScoresByDay))
		for day, points := range s.ScoresByDay {
			days[strconv.Itoa(day)] = points
		}
		out = append(out, standingDTO{
			Rank:        s.Rank,
			UserID:      s.UserID,
			Username:    s.Username,
			TotalPoints: s.TotalPoints,
			ScoresByDay: days,
		})
	}
	return out
}

func dayCalculationToDTO(v usecase.DayCalculation) dayCalculationDTO {
	return dayCalculationDTO{
		Day:           v.Day,
		Users:         v.Users,
		EntriesScored: v.EntriesScored,
		MissingStats:  v.MissingStats,
		CalculatedAt:  formatTime(v.CalculatedAt),
	}
}
