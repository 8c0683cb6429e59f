package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/cyclists", handler.ListCyclists)
	mux.HandleFunc("GET /v1/cyclists/{cyclistID}", handler.GetCyclist)
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/status", handler.GetLeagueStatus)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/teams", handler.ListTeamsByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/rosters", handler.ListRostersByLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/auction/results", handler.ListAuctionResults)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/auction/readiness", handler.GetAuctionReadiness)
}

// registerActorRoutes covers every route that acts on behalf of the X-User-ID caller.
func registerActorRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/leagues", RequireActor(http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("POST /v1/leagues/join", RequireActor(http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/activate", RequireActor(http.HandlerFunc(handler.ActivateLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}/teams/{teamID}/bids", RequireActor(http.HandlerFunc(handler.GetCurrentSubmission)))
	mux.Handle("POST /v1/leagues/{leagueID}/teams/{teamID}/bids", RequireActor(http.HandlerFunc(handler.SubmitBids)))
	mux.Handle("POST /v1/leagues/{leagueID}/teams/{teamID}/skip", RequireActor(http.HandlerFunc(handler.SkipRound)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/resolve-round", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResolveRoundJob)))
	mux.Handle("POST /v1/internal/jobs/sweep", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSweepJob)))
	mux.Handle("POST /v1/leagues/{leagueID}/rounds/{round}/resolve", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ResolveRound)))
}
