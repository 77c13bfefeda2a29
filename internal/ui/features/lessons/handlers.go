package lessons

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/ui/components"
	"github.com/leapstack-labs/sqlclass/internal/ui/notifier"
	"github.com/leapstack-labs/sqlclass/internal/ui/session"
	"github.com/starfederation/datastar-go/datastar"
)

const (
	// CookieName is the name of the browser session cookie.
	CookieName = "sqlclass"
	learnerKey = "learner"
)

// Signals are the datastar signals sent by the lesson page.
type Signals struct {
	Topic string `json:"topic"`
	SQL   string `json:"sql"`
}

// Handlers provides HTTP handlers for the lessons feature.
type Handlers struct {
	registry     *session.Registry
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(registry *session.Registry, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		registry:     registry,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
	}
}

// learner returns the lesson session of the requesting browser, issuing a
// new id cookie on first contact. It must run before any body is written.
func (h *Handlers) learner(w http.ResponseWriter, r *http.Request) (*lesson.Session, error) {
	s, err := h.sessionStore.Get(r, CookieName)
	if s == nil {
		return nil, err
	}
	if err != nil {
		// A cookie signed with an old secret decodes to a fresh session.
		h.logger.Debug("discarding unreadable session cookie", "error", err)
	}

	id, ok := s.Values[learnerKey].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		s.Values[learnerKey] = id
		if err := s.Save(r, w); err != nil {
			return nil, err
		}
	}
	return h.registry.Get(id), nil
}

// HomePage renders the introduction and the topic list.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	page := components.Page("Learn SQL", components.Home(catalog.Introduction, catalog.Overview, catalog.Topics()))
	if err := page.Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// TopicPage generates fresh data for a topic and renders the lesson page.
func (h *Handlers) TopicPage(w http.ResponseWriter, r *http.Request) {
	topicID := chi.URLParam(r, "id")

	sess, err := h.learner(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	preview, err := sess.Select(r.Context(), topicID)
	if err != nil {
		h.logger.Error("topic page failed", "topic", topicID, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		_ = components.ErrorPage(err.Error()).Render(r.Context(), w)
		return
	}

	title := topicID
	if preview.Topic != nil {
		title = preview.Topic.Title
	}
	if err := components.Page(title, components.Lesson(preview, catalog.DefaultQuery)).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Topics returns the catalog as JSON.
func (h *Handlers) Topics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(catalog.Topics())
}

// RunSSE runs the learner's query and patches the result area.
func (h *Handlers) RunSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(components.ErrorMessage("Failed to read signals: " + err.Error()))
		return
	}

	sess, err := h.learner(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// A page left open across a session expiry or in a second tab still
	// runs against the topic it shows.
	res, err := sess.RunTopic(r.Context(), signals.Topic, signals.SQL)
	if err != nil && !errors.Is(err, lesson.ErrNoTopic) {
		h.logger.Error("run failed", "topic", signals.Topic, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if errors.Is(err, lesson.ErrNoTopic) {
		_ = sse.PatchElementTempl(components.ErrorMessage("Choose a topic first."))
		return
	}
	if err := sse.PatchElementTempl(components.Result(res)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// RegenerateSSE replaces the sample data and patches the preview.
func (h *Handlers) RegenerateSSE(w http.ResponseWriter, r *http.Request) {
	var signals Signals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := h.learner(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	preview, err := sess.RegenerateTopic(r.Context(), signals.Topic)
	switch {
	case errors.Is(err, lesson.ErrNoTopic):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		h.logger.Error("regenerate failed", "topic", signals.Topic, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Preview(preview)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.PatchElementTempl(components.Result(nil))
}

// EventsSSE is the long-lived stream of server events such as a
// configuration reload.
func (h *Handlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-updates:
			if msg := strings.TrimSpace(ev.Message); msg != "" {
				if err := sse.PatchElementTempl(components.Notice(msg)); err != nil {
					_ = sse.ConsoleError(err)
				}
			}
			if ev.Reload {
				_ = sse.ExecuteScript("window.location.reload()")
			}
		}
	}
}
