package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	var req createLeagueRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := actorOrEmpty(ctx)
	lg, tm, err := h.leagueService.CreateLeague(ctx, usecase.CreateLeagueInput{
		UserID:   userID,
		Name:     req.Name,
		TeamName: req.TeamName,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, createLeagueResponse{
		League: leagueToDTO(lg, userID),
		Team:   teamToDTO(tm),
	})
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	var req joinLeagueRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tm, err := h.leagueService.JoinLeague(ctx, usecase.JoinLeagueInput{
		UserID:     actorOrEmpty(ctx),
		InviteCode: req.InviteCode,
		TeamName:   req.TeamName,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(tm))
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	userID := actorOrEmpty(ctx)
	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueToDTO(item, userID))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	item, err := h.leagueService.GetLeague(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item, actorOrEmpty(ctx)))
}

func (h *Handler) ActivateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateLeague")
	defer span.End()

	userID := actorOrEmpty(ctx)
	item, err := h.leagueService.ActivateLeague(ctx, r.PathValue("leagueID"), userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item, userID))
}

func (h *Handler) GetLeagueStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueStatus")
	defer span.End()

	status, err := h.leagueService.GetStatus(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueStatusToDTO(status))
}

func (h *Handler) ListTeamsByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByLeague")
	defer span.End()

	items, err := h.leagueService.ListTeamsByLeague(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListRostersByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRostersByLeague")
	defer span.End()

	items, err := h.leagueService.GetRosters(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]teamRosterDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamRosterToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
