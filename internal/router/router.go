package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pressgate-dev/pressgate/internal/config"
	"github.com/pressgate-dev/pressgate/internal/handler"
	"github.com/pressgate-dev/pressgate/internal/middleware"
)

// New assembles the full route tree. Everything under /v1/{realm} answers
// 404 for unknown realms; the auth middleware performs the same check on
// authenticated routes.
func New(h *handler.Handler, auth *middleware.Auth, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chi_middleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Route("/v1/{realm}", func(r chi.Router) {
		// Public surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.ValidRealm(cfg))
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Get("/content", h.ListPublished)
			r.Get("/content/{slug}", h.GetContent)
		})

		// Signed-in surface.
		r.Group(func(r chi.Router) {
			r.Use(auth.NeedAuth())
			r.Post("/auth/password", h.ChangePassword)
			r.Post("/content", h.SubmitContent)
			r.Get("/mine", h.ListMine)
			r.Put("/content/{id}", h.ResubmitContent)
			r.Delete("/content/{id}", h.DeleteContent)
			r.Get("/stats", h.MyStats)
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.AdminOnly())
			r.Get("/content", h.ListPending)
			r.Post("/content/{id}/approve", h.ApproveContent)
			r.Post("/content/{id}/reject", h.RejectContent)
			r.Get("/stats", h.GlobalStats)
			r.Post("/accounts", h.CreateAccount)
			r.Delete("/accounts/{id}", h.DeleteAccount)
			r.Post("/accounts/{id}/restore", h.RestoreAccount)
		})
	})

	return r
}
