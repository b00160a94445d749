package httpapi

import (
	"net/http"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/lineup"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
)

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineup")
	defer span.End()

	userID := r.PathValue("userID")
	day, err := parseDay(r.PathValue("day"), true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.lineupService.Get(ctx, userID, day)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup failed", "user_id", userID, "day", day, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(view))
}

func (h *Handler) SaveLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveLineup")
	defer span.End()

	userID := r.PathValue("userID")
	day, err := parseDay(r.PathValue("day"), true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req saveLineupRequest
	if err := h.decodeJSON(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	selections := make([]lineup.Selection, 0, len(req.Players))
	for _, p := range req.Players {
		selections = append(selections, lineup.Selection{PlayerID: p.PlayerID, IsCaptain: p.IsCaptain})
	}

	view, err := h.lineupService.Save(ctx, usecase.SaveLineupInput{
		UserID:     userID,
		Day:        day,
		Selections: selections,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "save lineup failed", "user_id", userID, "day", day, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(view))
}

func (h *Handler) ListLineupsByDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLineupsByDay")
	defer span.End()

	day, err := parseDay(r.URL.Query().Get("day"), true)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	views, err := h.lineupService.ListByDay(ctx, day)
	if err != nil {
		h.logger.WarnContext(ctx, "list lineups failed", "day", day, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]lineupDTO, 0, len(views))
	for _, v := range views {
		items = append(items, lineupToDTO(v))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
