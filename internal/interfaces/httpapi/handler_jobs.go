package httpapi

import (
	"net/http"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/match"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/player"
	"github.com/riskibarqy/iihf-fantasy/internal/domain/playerstat"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
)

func (h *Handler) CalculateDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateDay")
	defer span.End()

	day, err := parseDay(r.URL.Query().Get("day"), true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scoringService.CalculateDay(ctx, day)
	if err != nil {
		h.logger.ErrorContext(ctx, "calculate day failed", "day", day, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dayCalculationToDTO(result))
}

func (h *Handler) LockLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LockLineups")
	defer span.End()

	locked, err := h.jobService.RunLockSweep(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "lock sweep failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"locked": locked})
}

func (h *Handler) RunDailyScoringJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunDailyScoringJob")
	defer span.End()

	result, err := h.jobService.RunDailyScoring(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "daily scoring job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	days := make([]dayCalculationDTO, 0, len(result.Days))
	for _, d := range result.Days {
		days = append(days, dayCalculationToDTO(d))
	}
	writeSuccess(ctx, w, http.StatusOK, dailyScoringDTO{Locked: result.Locked, Days: days})
}

func (h *Handler) ImportPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportPlayers")
	defer span.End()

	var req importPlayersRequest
	if err := h.decodeJSON(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	players := make([]player.Player, 0, len(req.Players))
	for _, p := range req.Players {
		players = append(players, player.Player{Name: p.Name, Position: player.Position(p.Position), TeamAbbr: p.TeamAbbr})
	}

	report, err := h.ingestionService.ImportPlayers(ctx, h.yearOr(req.ChampionshipYear), players)
	if err != nil {
		h.logger.WarnContext(ctx, "import players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) ImportMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportMatches")
	defer span.End()

	var req importMatchesRequest
	if err := h.decodeJSON(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matches := make([]match.Match, 0, len(req.Matches))
	for _, m := range req.Matches {
		matches = append(matches, match.Match{
			Day:           m.Day,
			Date:          m.Date,
			MatchTime:     m.MatchTime,
			HomeTeam:      m.HomeTeam,
			AwayTeam:      m.AwayTeam,
			URLPlayByPlay: m.URLPlayByPlay,
			URLStatistics: m.URLStatistics,
		})
	}

	report, err := h.ingestionService.ImportMatches(ctx, matches)
	if err != nil {
		h.logger.WarnContext(ctx, "import matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) ImportMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportMatchStats")
	defer span.End()

	matchID, err := parseMatchID(r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req importStatsRequest
	if err := h.decodeJSON(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	records := make([]usecase.MatchStatRecord, 0, len(req.Stats))
	for _, s := range req.Stats {
		records = append(records, usecase.MatchStatRecord{
			PlayerName: s.Player,
			Line: playerstat.Line{
				Goals:            s.Goals,
				Assists:          s.Assists,
				PowerPlayGoals:   s.PowerPlayGoals,
				ShorthandedGoals: s.ShorthandedGoals,
				GameWinningGoals: s.GameWinningGoals,
				PenaltyMinutes:   s.PenaltyMinutes,
				PlusMinus:        s.PlusMinus,
				Saves:            s.Saves,
				GoalsAgainst:     s.GoalsAgainst,
				Win:              s.Win,
			},
		})
	}

	report, err := h.ingestionService.ImportMatchStats(ctx, matchID, h.yearOr(req.ChampionshipYear), records)
	if err != nil {
		h.logger.WarnContext(ctx, "import match stats failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) yearOr(year int) int {
	if year > 0 {
		return year
	}
	return h.championship.Year
}
