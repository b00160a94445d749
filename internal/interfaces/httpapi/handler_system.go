package httpapi

import (
	"net/http"

	"github.com/riskibarqy/iihf-fantasy/internal/domain/scoring"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetChampionship exposes the tournament, slot limits and weight table.
func (h *Handler) GetChampionship(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChampionship")
	defer span.End()

	limits := h.lineupService.SlotLimits()
	slots := make([]slotLimitDTO, 0, len(limits.Positions()))
	for _, pos := range limits.Positions() {
		limit, _ := limits.Limit(pos)
		slots = append(slots, slotLimitDTO{Position: string(pos), Max: limit})
	}

	rules := h.scoringService.Rules()
	weights := make(map[string]scoring.Weights)
	for pos, weight := range rules.Table() {
		weights[string(pos)] = weight
	}

	writeSuccess(ctx, w, http.StatusOK, championshipDTO{
		Year:              h.championship.Year,
		URL:               h.championship.URL,
		SlotLimits:        slots,
		CaptainMultiplier: rules.CaptainMultiplier(),
		Weights:           weights,
	})
}
