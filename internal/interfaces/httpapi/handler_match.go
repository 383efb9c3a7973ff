package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-scoreboard/internal/domain/match"
	"github.com/riskibarqy/league-scoreboard/internal/usecase"
)

type addMatchRequest struct {
	Team1  string `json:"team1" validate:"required,max=64"`
	Team2  string `json:"team2" validate:"required,max=64"`
	Result string `json:"result" validate:"required,score_result"`
	Date   string `json:"date" validate:"omitempty,max=32"`
}

type checkPairingQuery struct {
	Team1 string `validate:"required,max=64"`
	Team2 string `validate:"required,max=64"`
}

func validateScoreResult(fl validator.FieldLevel) bool {
	_, err := match.ParseResult(fl.Field().String())
	return err == nil
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	views := h.scoreboard.ListMatches(ctx)
	items := make([]matchDTO, 0, len(views))
	for _, view := range views {
		items = append(items, matchViewToDTO(view))
	}

	writeSuccess(ctx, w, http.StatusOK, listDTO[matchDTO]{Items: items, Total: len(items)})
}

func (h *Handler) AddMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMatch")
	defer span.End()

	var req addMatchRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.scoreboard.AddMatch(ctx, usecase.AddMatchInput{
		Team1:  req.Team1,
		Team2:  req.Team2,
		Result: req.Result,
		Date:   req.Date,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add match failed", "team1", req.Team1, "team2", req.Team2, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, recordToDTO(record))
}

func (h *Handler) CheckPairing(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CheckPairing")
	defer span.End()

	query := r.URL.Query()
	req := checkPairingQuery{
		Team1: strings.TrimSpace(query.Get("team1")),
		Team2: strings.TrimSpace(query.Get("team2")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	ok, err := h.scoreboard.CanSchedule(ctx, req.Team1, req.Team2)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pairingDTO{Team1: req.Team1, Team2: req.Team2, CanSchedule: ok})
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	id, err := pathMatchID(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.scoreboard.DeleteMatch(ctx, id); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ClearMatches")
	defer span.End()

	h.scoreboard.ClearMatches(ctx)
	h.logger.InfoContext(ctx, "match log cleared")

	w.WriteHeader(http.StatusNoContent)
}
