package handler

import (
	"net/http"

	"github.com/Abdurahmanit/skip2love/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/skip2love/internal/platform/logger"
	"github.com/Abdurahmanit/skip2love/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RouterDeps struct {
	Auth     AuthService
	Ads      AdService
	Profiles ProfileService
	Gate     Gate

	Metrics     *metrics.MetricsManager
	RateLimiter *middleware.RateLimiter
	Logger      *logger.Logger
}

// NewRouter builds the API. Middleware order:
//
//	RequestID -> CapturePeer -> RealIP -> Recoverer -> RequestLogger -> Authenticate
//
// /api/auth/* is additionally rate limited per TCP peer; RealIP only feeds
// the logs.
func NewRouter(deps *RouterDeps) http.Handler {
	log := deps.Logger.Named("http")

	authHandler := NewAuthHandler(deps.Auth, deps.Metrics, log)
	adHandler := NewAdHandler(deps.Ads, deps.Gate, log)
	profileHandler := NewProfileHandler(deps.Profiles)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.CapturePeer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RequestLogger(log, deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.Auth, log))

		r.Route("/auth", func(r chi.Router) {
			if deps.RateLimiter != nil {
				r.Use(deps.RateLimiter.Middleware)
			}
			r.Post("/signup", authHandler.SignUp)
			r.Post("/verify", authHandler.Verify)
			r.Post("/login", authHandler.SignIn)
			r.With(middleware.RequireAuth).Post("/logout", authHandler.SignOut)
		})

		r.Get("/ads", adHandler.List)
		r.Get("/ads/{id}", adHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/me", authHandler.Me)
			r.Get("/me/ads", adHandler.ListMine)
			r.Put("/profile", profileHandler.Complete)

			r.Post("/ads", adHandler.Create)
			r.Patch("/ads/{id}", adHandler.Update)
			r.Put("/ads/{id}/images", adHandler.AttachImages)
			r.Post("/ads/{id}/deactivate", adHandler.Deactivate)
			r.Post("/ads/{id}/activate", adHandler.Activate)
		})
	})

	return r
}
