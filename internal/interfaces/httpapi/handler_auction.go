package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

func (h *Handler) ListAuctionResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAuctionResults")
	defer span.End()

	rows, err := h.auctionService.ListResults(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]resultRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultRowToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetAuctionReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAuctionReadiness")
	defer span.End()

	readiness, err := h.auctionService.CheckReadiness(ctx, r.PathValue("leagueID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, readinessToDTO(readiness))
}

func (h *Handler) ResolveRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveRound")
	defer span.End()

	round, err := parseRoundParam(r.PathValue("round"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.auctionService.ResolveRound(ctx, r.PathValue("leagueID"), round)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolutionToDTO(res))
}

func (h *Handler) RunResolveRoundJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunResolveRoundJob")
	defer span.End()

	var req usecase.ResolveRoundJob
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.auctionService.ResolveRound(ctx, req.LeagueID, req.RoundNumber)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve-round job failed",
			"league_id", req.LeagueID,
			"round", req.RoundNumber,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "resolve-round job done",
		"league_id", res.LeagueID,
		"round", res.RoundNumber,
		"already_resolved", res.AlreadyResolved,
		"finished", res.Finished,
	)
	writeSuccess(ctx, w, http.StatusOK, resolutionToDTO(res))
}

func (h *Handler) RunSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSweepJob")
	defer span.End()

	result, err := h.auctionService.Sweep(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
