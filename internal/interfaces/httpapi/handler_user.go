package httpapi

import (
	"net/http"

	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterUser")
	defer span.End()

	var req registerUserRequest
	if err := h.decodeJSON(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	u, err := h.userService.Register(ctx, usecase.RegisterUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register user failed", "username", req.Username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, userToDTO(u))
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUsers")
	defer span.End()

	users, err := h.userService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list users failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, userToDTO(u))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetUserScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserScores")
	defer span.End()

	userID := r.PathValue("userID")
	details, err := h.scoringService.MyScores(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user scores failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userDayScoreDTO, 0, len(details))
	for _, d := range details {
		items = append(items, userDayScoreDTO{
			Day:          d.Day,
			TotalPoints:  d.TotalPoints,
			CalculatedAt: formatTime(d.CalculatedAt),
			Entries:      entriesToDTO(d.Entries),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
