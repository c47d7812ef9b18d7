package routes

import (
	"net/http"

	_ "github.com/Dosada05/backyard-olympics/docs"
	"github.com/Dosada05/backyard-olympics/handlers"
	"github.com/Dosada05/backyard-olympics/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Tournament *handlers.TournamentHandler
	Schedule   *handlers.ScheduleHandler
	Matchup    *handlers.MatchupHandler
	Team       *handlers.TeamHandler
	Standings  *handlers.StandingsHandler
	WebSocket  *handlers.WebSocketHandler
}

type Options struct {
	JWTSecret      string
	Teams          middleware.TeamResolver
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.TeamTokenHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	operatorOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(middleware.RoleOperator))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Post("/auth/login", h.Auth.Login)
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListTournaments)

		r.Group(func(r chi.Router) {
			operatorOnly(r)
			r.Post("/", h.Tournament.CreateTournament)
		})

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetTournament)
			r.Get("/teams", h.Tournament.ListTeams)
			r.Get("/rounds", h.Schedule.ListRounds)
			r.Get("/standings", h.Standings.ListStandings)
			r.Get("/schedule.csv", h.Standings.ScheduleCSV)
			r.Get("/standings.csv", h.Standings.StandingsCSV)

			r.Group(func(r chi.Router) {
				operatorOnly(r)

				r.Post("/teams", h.Tournament.AddTeam)
				r.Delete("/teams/{teamID}", h.Tournament.RemoveTeam)
				r.Post("/games", h.Tournament.AddGame)
				r.Delete("/games/{gameID}", h.Tournament.RemoveGame)

				r.Post("/schedule", h.Schedule.BuildSchedule)
				r.Delete("/schedule", h.Schedule.ResetSchedule)
				r.Get("/schedule/violations", h.Schedule.ValidateSchedule)
				r.Post("/rounds/advance", h.Schedule.AdvanceRound)
				r.Post("/rounds/retreat", h.Schedule.RetreatRound)
				r.Put("/rounds/{roundNumber}/timing", h.Schedule.AdjustRoundTiming)

				r.Post("/standings/recompute", h.Standings.RecomputeStandings)
				r.Post("/exports", h.Standings.PublishExports)
			})
		})
	})

	router.Route("/matchups/{matchupID}", func(r chi.Router) {
		r.Get("/", h.Matchup.GetMatchup)

		r.Group(func(r chi.Router) {
			operatorOnly(r)
			r.Post("/report", h.Matchup.ReportResult)
			r.Post("/resolve", h.Matchup.ResolveConflict)
			r.Post("/reset", h.Matchup.ResetMatchup)
		})
	})

	router.Route("/team", func(r chi.Router) {
		r.Use(middleware.AuthenticateTeam(opts.Teams))

		r.Get("/", h.Team.GetTeam)
		r.Post("/matchups/{matchupID}/report", h.Team.ReportResult)
		r.Get("/wagers", h.Team.ListWagers)
		r.Put("/wagers/{gameID}", h.Team.PlaceWager)
	})
}
