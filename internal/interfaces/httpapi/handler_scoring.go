package httpapi

import (
	"net/http"

	"github.com/riskibarqy/iihf-fantasy/internal/report"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
)

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	standings, err := h.scoringService.Standings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list standings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(standings))
}

// ExportStandingsCSV serves standings for the spreadsheet sink. With
// ?day=N it exports that day's scores instead.
func (h *Handler) ExportStandingsCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportStandingsCSV")
	defer span.End()

	day, err := parseDay(r.URL.Query().Get("day"), false)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var rows []usecase.Standing
	if day > 0 {
		rows, err = h.scoringService.ScoresForDay(ctx, day)
	} else {
		rows, err = h.scoringService.Standings(ctx)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "export standings failed", "day", day, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="standings.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := report.WriteStandingsCSV(w, rows); err != nil {
		h.logger.WarnContext(ctx, "write standings csv failed", "error", err)
	}
}

func (h *Handler) ListScoresForDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoresForDay")
	defer span.End()

	day, err := parseDay(r.URL.Query().Get("day"), true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	scores, err := h.scoringService.ScoresForDay(ctx, day)
	if err != nil {
		h.logger.WarnContext(ctx, "list day scores failed", "day", day, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(scores))
}
