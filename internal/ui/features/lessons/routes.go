// Package lessons provides the home page, the topic pages and the query
// endpoints of the web UI.
package lessons

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/sqlclass/internal/ui/notifier"
	"github.com/leapstack-labs/sqlclass/internal/ui/session"
)

// SetupRoutes registers the lesson feature routes.
func SetupRoutes(
	router chi.Router,
	registry *session.Registry,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(registry, sessionStore, notify, logger)

	// Page routes
	router.Get("/", handlers.HomePage)
	router.Get("/topics/{id}", handlers.TopicPage)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/topics", handlers.Topics)
		r.Post("/run", handlers.RunSSE)
		r.Post("/regenerate", handlers.RegenerateSSE)
		r.Get("/events", handlers.EventsSSE)
	})

	return nil
}
