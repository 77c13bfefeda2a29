// Package router sets up HTTP routes for the UI server.
package router

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	lessonsFeature "github.com/leapstack-labs/sqlclass/internal/ui/features/lessons"
	"github.com/leapstack-labs/sqlclass/internal/ui/notifier"
	"github.com/leapstack-labs/sqlclass/internal/ui/resources"
	"github.com/leapstack-labs/sqlclass/internal/ui/session"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	registry *session.Registry,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"sessions": registry.Len(),
		})
	})

	// Feature routes
	if err := lessonsFeature.SetupRoutes(router, registry, sessionStore, notify, logger); err != nil {
		return err
	}

	return nil
}
