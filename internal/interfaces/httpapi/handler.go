package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

type Handler struct {
	scoreboard *usecase.ScoreboardService
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(scoreboard *usecase.ScoreboardService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scoreboard: scoreboard,
		logger:     logger,
		validator:  newValidator(),
	}
}

// newValidator panics if a custom rule fails to register.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("score_result", validateScoreResult); err != nil {
		panic(fmt.Sprintf("register score_result validation: %v", err))
	}
	return v
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz fails with 503 while the match storage backend cannot be reached.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if err := h.scoreboard.Ready(ctx); err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) decodeRequest(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathMatchID(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("matchID"))
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: match id must be a positive integer, got %q", usecase.ErrInvalidInput, raw)
	}

	return id, nil
}

func pathTeamName(r *http.Request) (string, error) {
	name := strings.TrimSpace(r.PathValue("teamName"))
	if name == "" {
		return "", fmt.Errorf("%w: team name is required", usecase.ErrInvalidInput)
	}

	return name, nil
}
