// Package ui provides the web UI for SQLClass.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/sqlclass/internal/ui/notifier"
	"github.com/leapstack-labs/sqlclass/internal/ui/router"
	"github.com/leapstack-labs/sqlclass/internal/ui/session"
	"golang.org/x/sync/errgroup"
)

const reloadDebounce = 100 * time.Millisecond

// Server is the main UI server.
type Server struct {
	registry     *session.Registry
	sessionStore *sessions.CookieStore
	port         int
	watch        bool
	configFile   string
	reload       func() (session.Settings, error)
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Settings session.Settings
	Port     int
	// Watch reloads Settings through Reload when ConfigFile changes.
	Watch      bool
	ConfigFile string
	Reload     func() (session.Settings, error)
	// SessionSecret signs the session cookie. Empty means a random key per
	// process, which logs everyone out on restart.
	SessionSecret string
	SessionTTL    time.Duration
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
	}
	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(0) // browser session
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		registry:     session.NewRegistry(session.NewFactory(cfg.Settings, logger), cfg.SessionTTL, logger),
		sessionStore: sessionStore,
		port:         cfg.Port,
		watch:        cfg.Watch,
		configFile:   cfg.ConfigFile,
		reload:       cfg.Reload,
		logger:       logger,
		notifier:     notifier.New(),
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.registry, s.sessionStore, s.notifier, s.logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting UI server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.registry.Run(egctx)
	})

	if s.watch && s.configFile != "" && s.reload != nil {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Registry returns the browser session registry.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// Reload re-reads the settings, replaces every session and tells open
// pages to reload. On failure the current sessions are kept.
func (s *Server) Reload() error {
	if s.reload == nil {
		return nil
	}
	settings, err := s.reload()
	if err != nil {
		s.logger.Error("config reload failed", "error", err)
		s.notifier.Broadcast(notifier.Event{Message: "Configuration reload failed: " + err.Error()})
		return err
	}

	s.registry.Reset(session.NewFactory(settings, s.logger))
	s.logger.Info("configuration reloaded",
		"engine", settings.Engine,
		"query_timeout", settings.QueryTimeout,
		"max_rows", settings.MaxRows)
	s.notifier.Broadcast(notifier.Event{Message: "Configuration reloaded", Reload: true})
	return nil
}

// watchConfig reloads when the config file changes. The parent directory
// is watched because editors often replace the file instead of writing it.
func (s *Server) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.configFile)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("failed to watch config file", "path", target, "error", err)
		// Don't fail - continue without watching
		<-ctx.Done()
		return nil
	}
	s.logger.Debug("watching config file", "path", target)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, func() {
				s.logger.Debug("config file changed", "file", event.Name)
				_ = s.Reload()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}
