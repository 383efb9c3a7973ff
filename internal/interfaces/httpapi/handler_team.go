package httpapi

import (
	"net/http"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams := h.scoreboard.Teams(ctx)
	writeSuccess(ctx, w, http.StatusOK, listDTO[teamDTO]{Items: teamsToDTO(teams), Total: len(teams)})
}

func (h *Handler) GetTeamDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamDetail")
	defer span.End()

	name, err := pathTeamName(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.scoreboard.TeamDetail(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "get team detail failed", "team", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamDetailToDTO(detail))
}

func (h *Handler) ListAvailableOpponents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAvailableOpponents")
	defer span.End()

	name, err := pathTeamName(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	opponents, err := h.scoreboard.AvailableOpponents(ctx, name)
	if err != nil {
		h.logger.WarnContext(ctx, "list available opponents failed", "team", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, listDTO[teamDTO]{Items: teamsToDTO(opponents), Total: len(opponents)})
}
