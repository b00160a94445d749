package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
)

// maxRequestBody bounds request payloads, stats imports included.
const maxRequestBody = 4 << 20

// ChampionshipInfo is the configured tournament echoed by /v1/championship.
type ChampionshipInfo struct {
	Year int
	URL  string
}

type Handler struct {
	championship     ChampionshipInfo
	playerService    *usecase.PlayerService
	matchService     *usecase.MatchService
	userService      *usecase.UserService
	lineupService    *usecase.LineupService
	scoringService   *usecase.ScoringService
	ingestionService *usecase.IngestionService
	jobService       *usecase.JobService
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	championship ChampionshipInfo,
	playerService *usecase.PlayerService,
	matchService *usecase.MatchService,
	userService *usecase.UserService,
	lineupService *usecase.LineupService,
	scoringService *usecase.ScoringService,
	ingestionService *usecase.IngestionService,
	jobService *usecase.JobService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		championship:     championship,
		playerService:    playerService,
		matchService:     matchService,
		userService:      userService,
		lineupService:    lineupService,
		scoringService:   scoringService,
		ingestionService: ingestionService,
		jobService:       jobService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSON strictly decodes the request body into dst and validates it.
func (h *Handler) decodeJSON(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

// parseDay reads a day from a path or query value. Blank input yields 0
// unless required.
func parseDay(raw string, required bool) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%w: day is required", usecase.ErrInvalidInput)
		}
		return 0, nil
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day <= 0 {
		return 0, fmt.Errorf("%w: day must be a positive integer", usecase.ErrInvalidInput)
	}
	return day, nil
}

func parseMatchID(raw string) (int64, error) {
	matchID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || matchID <= 0 {
		return 0, fmt.Errorf("%w: match id must be a positive integer", usecase.ErrInvalidInput)
	}
	return matchID, nil
}
