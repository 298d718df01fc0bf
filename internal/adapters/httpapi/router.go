package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: middleware handles identity and
// request plumbing, handlers decode and delegate to the services.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(NewIdentityMiddleware())

	// Health endpoint for infra checks.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.handleSearchTrips)
		r.Post("/", s.handleCreateTrip)
		r.Get("/{tripID}", s.handleGetTrip)
		r.Delete("/{tripID}", s.handleDeleteTrip)
	})

	r.Route("/me", func(r chi.Router) {
		r.Get("/trips", s.handleListMyTrips)
		r.Get("/admin", s.handleGetMyAdmin)
	})

	r.Route("/admin/trips", func(r chi.Router) {
		r.Get("/", s.handleAdminListTrips)
		r.Post("/{tripID}/hide", s.handleHideTrip)
		r.Delete("/{tripID}/hide", s.handleUnhideTrip)
	})

	return r
}
