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

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/championship", handler.GetChampionship)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/today", handler.ListTodayMatches)
	mux.HandleFunc("POST /v1/users", handler.RegisterUser)
	mux.HandleFunc("GET /v1/users", handler.ListUsers)
	mux.HandleFunc("GET /v1/users/{userID}/lineups/{day}", handler.GetLineup)
	mux.HandleFunc("PUT /v1/users/{userID}/lineups/{day}", handler.SaveLineup)
	mux.HandleFunc("GET /v1/users/{userID}/scores", handler.GetUserScores)
	mux.HandleFunc("GET /v1/lineups", handler.ListLineupsByDay)
	mux.HandleFunc("GET /v1/scores", handler.ListScoresForDay)
	mux.HandleFunc("GET /v1/scores/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/scores/standings.csv", handler.ExportStandingsCSV)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(next http.HandlerFunc) http.Handler {
		return RequireInternalJobToken(internalJobToken, next)
	}

	mux.Handle("POST /v1/internal/scores/calculate", internal(handler.CalculateDay))
	mux.Handle("POST /v1/internal/lineups/lock", internal(handler.LockLineups))
	mux.Handle("POST /v1/internal/jobs/daily-scoring", internal(handler.RunDailyScoringJob))
	mux.Handle("POST /v1/internal/ingestion/players", internal(handler.ImportPlayers))
	mux.Handle("POST /v1/internal/ingestion/matches", internal(handler.ImportMatches))
	mux.Handle("POST /v1/internal/ingestion/matches/{matchID}/stats", internal(handler.ImportMatchStats))
}
