package lessons

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/sqlclass/internal/testutil"
	"github.com/leapstack-labs/sqlclass/internal/ui/notifier"
	"github.com/leapstack-labs/sqlclass/internal/ui/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	handler  http.Handler
	registry *session.Registry
	notifier *notifier.Notifier
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	settings := session.Settings{Engine: "sqlite", Seed: 11, QueryTimeout: 5 * time.Second, MaxRows: 1000}
	reg := session.NewRegistry(session.NewFactory(settings, logger), time.Minute, logger)
	t.Cleanup(reg.CloseAll)

	n := notifier.New()
	r := chi.NewMux()
	require.NoError(t, SetupRoutes(r, reg, sessions.NewCookieStore([]byte("test-secret-0123456789abcdef0123")), n, logger))
	return &fixture{handler: r, registry: reg, notifier: n}
}

func (f *fixture) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

// visit opens a topic page and returns the session cookies.
func (f *fixture) visit(t *testing.T, topic string) []*http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodGet, "/topics/"+topic, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func signals(t *testing.T, topic, sql string) string {
	t.Helper()
	b, err := json.Marshal(Signals{Topic: topic, SQL: sql})
	require.NoError(t, err)
	return string(b)
}

func TestHomePage(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "Welcome to SQL")
	assert.Contains(t, body, `href="/topics/inner_join"`)
	assert.Contains(t, body, `href="/static/sqlclass.css"`)
	assert.Equal(t, 0, f.registry.Len(), "the home page needs no session")
}

func TestTopicPage(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/topics/where", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<section id="preview">`)
	assert.Contains(t, body, `<section id="result">`)
	assert.Contains(t, body, "<h3>Customers</h3>")
	assert.NotContains(t, body, "<h3>Orders</h3>")
	assert.Contains(t, body, "data-bind:sql")
	assert.Contains(t, body, "SELECT * FROM Customers;")

	var found bool
	for _, c := range rec.Result().Cookies() {
		found = found || c.Name == CookieName
	}
	assert.True(t, found, "session cookie should be set")
	assert.Equal(t, 1, f.registry.Len())
}

func TestTopicPage_JoinHasOrders(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/topics/inner_join", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h3>Orders</h3>")
}

func TestTopicPage_UnknownTopic(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/topics/merge", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown topic")
	assert.NotContains(t, rec.Body.String(), "<h2>Example</h2>")
}

func TestRunSSE(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{name: "rows", sql: "SELECT Name FROM Customers WHERE Age > 200;", want: "0 rows"},
		{name: "count", sql: "SELECT COUNT(*) AS total FROM Customers;", want: "<th>total</th>"},
		{name: "invalid", sql: "SELEC Name FROM Customers;", want: `class="error"`},
		{name: "statement", sql: "DELETE FROM Customers;", want: "40 rows affected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			cookies := f.visit(t, "where")

			rec := f.do(t, http.MethodPost, "/api/run", signals(t, "where", tt.sql), cookies)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
			assert.Contains(t, rec.Body.String(), `<section id="result">`)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.Equal(t, 1, f.registry.Len(), "the cookie should map to the same session")
		})
	}
}

func TestRunSSE_NoTopic(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/api/run", signals(t, "", "SELECT 1;"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Choose a topic first.")
}

func TestRunSSE_SelectsTopicFromSignals(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/api/run",
		signals(t, "DISTINCT", "SELECT City FROM Customers GROUP BY City;"), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Correct!")
}

func TestRegenerateSSE(t *testing.T) {
	f := setup(t)
	cookies := f.visit(t, "where")

	rec := f.do(t, http.MethodPost, "/api/regenerate", signals(t, "where", ""), cookies)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<section id="preview">`)
	assert.Contains(t, body, `<section id="result">`)
}

func TestRegenerateSSE_NoTopic(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodPost, "/api/regenerate", signals(t, "", ""), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopicsAPI(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/api/topics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var topics []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topics))
	require.Len(t, topics, 19)
	assert.Equal(t, "SELECT", topics[0].ID)
}

func TestEventsSSE(t *testing.T) {
	f := setup(t)
	srv := httptest.NewServer(f.handler)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
		if err != nil {
			return
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer func() { _ = resp.Body.Close() }()
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	require.Eventually(t, func() bool { return f.notifier.Listeners() == 1 }, 5*time.Second, 10*time.Millisecond)
	f.notifier.Broadcast(notifier.Event{Message: "Configuration reloaded", Reload: true})

	var sawNotice, sawReload bool
	timeout := time.After(5 * time.Second)
	for !sawNotice || !sawReload {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream ended early")
			sawNotice = sawNotice || strings.Contains(line, "Configuration reloaded")
			sawReload = sawReload || strings.Contains(line, "window.location.reload()")
		case <-timeout:
			t.Fatalf("events not received (notice=%v reload=%v)", sawNotice, sawReload)
		}
	}

	cancel()
	require.Eventually(t, func() bool { return f.notifier.Listeners() == 0 }, 5*time.Second, 10*time.Millisecond)
}
