package httpapi

import (
	"net/http"

	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

func (h *Handler) SubmitBids(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitBids")
	defer span.End()

	var req submitBidsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	bids := make([]usecase.BidInput, 0, len(req.Bids))
	for _, item := range req.Bids {
		bids = append(bids, usecase.BidInput{CyclistID: item.CyclistID, Price: item.Price})
	}

	result, err := h.bidService.SubmitBids(ctx, usecase.SubmitBidsInput{
		LeagueID:    r.PathValue("leagueID"),
		TeamID:      r.PathValue("teamID"),
		ActorUserID: actorOrEmpty(ctx),
		RoundNumber: req.RoundNumber,
		Bids:        bids,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submissionResultToDTO(result))
}

func (h *Handler) SkipRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SkipRound")
	defer span.End()

	var req skipRoundRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.bidService.SkipRound(ctx, usecase.SkipRoundInput{
		LeagueID:    r.PathValue("leagueID"),
		TeamID:      r.PathValue("teamID"),
		ActorUserID: actorOrEmpty(ctx),
		RoundNumber: req.RoundNumber,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, submissionResultToDTO(result))
}

// GetCurrentSubmission returns the caller's team submission. Without ?round the
// league's active round is used.
func (h *Handler) GetCurrentSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentSubmission")
	defer span.End()

	round, err := parseRoundParam(r.URL.Query().Get("round"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.bidService.GetCurrentSubmission(ctx, usecase.CurrentSubmissionInput{
		LeagueID:    r.PathValue("leagueID"),
		TeamID:      r.PathValue("teamID"),
		ActorUserID: actorOrEmpty(ctx),
		RoundNumber: round,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(item))
}
