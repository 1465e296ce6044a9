package webhook

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the webhook routes with standard middleware.
func NewRouter(h *Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Timeout(30*time.Second),
	)

	router.Get("/healthz", Healthz)
	router.Route("/standup", func(r chi.Router) {
		r.Post("/webhook", h.Webhook)
		r.Post("/twilio-status", h.StatusCallback)
	})

	return router
}

// NewServer wraps the router in an http.Server with sane timeouts.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewRouter(h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
