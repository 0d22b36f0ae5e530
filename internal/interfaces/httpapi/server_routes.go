package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool, metrics MetricsProvider) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /{$}", handler.Welcome)
	mux.HandleFunc("GET /api/v1", handler.Welcome)
	mux.HandleFunc("GET /api/v1/{$}", handler.Welcome)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /api/v1/competitions/{competitionID}/seasons/{seasonID}/matches", handler.ListMatches)
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/summary", handler.GetMatchSummary)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/narrative", handler.GetMatchNarrative)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/narratives", handler.ListMatchNarrations)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/analysis", handler.GetMatchAnalysis)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/lineups", handler.ListMatchLineups)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/players/{playerID}", handler.GetPlayerProfile)
	// Singular path kept for dashboard callers.
	mux.HandleFunc("GET /api/v1/matches/{matchID}/player/{playerID}", handler.GetPlayerProfile)
	mux.HandleFunc("GET /api/v1/matches/{matchID}/players/{playerID}/analysis", handler.GetPlayerAnalysis)
	mux.HandleFunc("POST /api/v1/matches/{matchID}/chat", handler.ChatAboutMatch)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /api/v1/players/{playerID}/profile", handler.GetDefaultPlayerProfile)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /api/v1/internal/jobs/warm-cache", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWarmCacheJob)))
}
