package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plankhq/plank/backend/internal/setup"
	mw "github.com/plankhq/plank/shared/middleware"
	"github.com/plankhq/plank/shared/middleware/metrics"
	rl "github.com/plankhq/plank/shared/middleware/ratelimiter"
)

// New creates and configures the chi router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints
// combined in that subrouter.
func New(deps *setup.Dependencies) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(metrics.Middleware)

	// CORS for browser clients
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		// Auth routes
		v1.Route("/auth", func(auth chi.Router) {
			// Email-sending endpoint: strict limits by email and IP
			auth.Group(func(sending chi.Router) {
				sending.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetEmailFromBody))
				sending.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetIP))
				sending.Use(mw.GlobalRateLimit(rl.Rps100))
				sending.Post("/register", h.Register)
			})

			// Confirmation code verification: stricter limits to slow
			// brute force
			auth.Group(func(confirm chi.Router) {
				confirm.Use(mw.RateLimit(rl.New(5.0/600, 5, 1*time.Hour), mw.GetEmailFromBody))
				confirm.Use(mw.RateLimit(rl.OnceInSecond, mw.GetIP))
				confirm.Use(mw.GlobalRateLimit(rl.Rps100))
				confirm.Post("/confirm", h.CheckConfirmationCode)
			})

			auth.Group(func(login chi.Router) {
				login.Use(mw.RateLimit(rl.OnceInSecond, mw.GetIP))
				login.Use(mw.GlobalRateLimit(rl.Rps1000))
				login.Post("/login", h.Login)
				login.Post("/token/redeem", h.RedeemLoginToken)
			})

			auth.Post("/logout", h.Logout)

			auth.Group(func(session chi.Router) {
				session.Use(authMw.NeedAuth())
				session.Post("/token", h.CreateLoginToken)
				session.Put("/password", h.ChangePassword)
			})
		})

		// Everything below requires a session
		v1.Group(func(loggedIn chi.Router) {
			loggedIn.Use(authMw.NeedAuth())
			loggedIn.Use(mw.RateLimit(rl.Rps100, mw.GetUserIDFromContext))

			// Broadcast channel subscription
			loggedIn.Get("/events", deps.WsHandler)

			loggedIn.Post("/projects", h.CreateProject)
			loggedIn.Get("/projects", h.GetProjects)
			loggedIn.Post("/invites/{token}/accept", h.AcceptInvite)

			// Project-scoped routes additionally require membership
			loggedIn.Route("/projects/{projectId}", func(project chi.Router) {
				project.Use(mw.RequireProjectMember(deps.Storage))

				project.Put("/", h.UpdateProject)
				project.Delete("/", h.DeleteProject)
				project.Get("/members", h.GetMembers)
				project.Put("/members/{userId}/role", h.ChangeRole)
				project.Post("/invites", h.CreateInvite)

				project.Get("/columns", h.GetColumns)
				project.Post("/columns", h.CreateColumn)
				project.Delete("/columns/{columnId}", h.DeleteColumn)
				project.Get("/columns/{columnId}/cards", h.GetCards)
				project.Post("/columns/{columnId}/cards", h.CreateCard)
				project.Delete("/columns/{columnId}/cards", h.DeleteCards)

				project.Get("/cards/{cardId}", h.GetCardDetail)
				project.Delete("/cards/{cardId}", h.DeleteCard)
				project.Put("/cards/{cardId}/move", h.MoveCard)
				project.Put("/cards/{cardId}/title", h.EditCardTitle)
				project.Put("/cards/{cardId}/description", h.EditCardDescription)
				project.Put("/cards/{cardId}/dates", h.SetCardDates)
				project.Put("/cards/{cardId}/assignee", h.SetCardAssignee)

				project.Get("/cards/{cardId}/comments", h.GetComments)
				project.Post("/cards/{cardId}/comments", h.CreateComment)
				project.Put("/comments/{commentId}", h.EditComment)
				project.Delete("/comments/{commentId}", h.DeleteComment)

				project.Get("/chat", h.GetChat)
				// Chat sends are capped per user
				project.With(mw.RateLimit(rl.OnceInSecond, mw.GetUserIDFromContext)).Post("/chat", h.SendChatMessage)

				project.Get("/logs", h.GetActivityLogs)
				project.Post("/logs", h.WriteActivityLog)
			})
		})
	})

	// Wildcard OPTIONS so preflights never 404
	r.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
