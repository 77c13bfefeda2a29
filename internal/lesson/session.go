// Package lesson ties the catalog, the dataset generator and the sandbox
// into one learner interaction.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/dataset"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
)

// ErrNoTopic is returned when an operation needs a selected topic.
var ErrNoTopic = errors.New("no topic selected")

// Result is the outcome of one query. Exactly one of Table and Error is set.
type Result struct {
	Query string         `json:"query"`
	Table *sandbox.Table `json:"table,omitempty"`
	Error string         `json:"error,omitempty"`
	// Correct is set for quiz topics whose expected answer has rows.
	Correct *bool `json:"correct,omitempty"`
}

// OK reports whether the query succeeded.
func (r *Result) OK() bool {
	return r.Error == ""
}

// DataTable is the content of one generated table before any query runs.
type DataTable struct {
	Name  string         `json:"name"`
	Table *sandbox.Table `json:"table,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Preview is what a learner sees right after choosing a topic.
type Preview struct {
	TopicID      string         `json:"topic_id"`
	Topic        *catalog.Topic `json:"topic,omitempty"`
	Description  string         `json:"description"`
	ExampleQuery string         `json:"example_query,omitempty"`
	Tables       []DataTable    `json:"tables"`
	// Example is nil when the topic has no example query.
	Example *Result `json:"example,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTransitionHook registers fn to observe state changes. fn runs with the
// session locked and must not call back into it.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(s *Session) { s.hook = fn }
}

// Session is one learner's interaction. Calls are serialised.
type Session struct {
	mu     sync.Mutex
	gen    *dataset.Generator
	box    *sandbox.Sandbox
	logger *slog.Logger
	hook   func(from, to State)

	state   State
	topicID string
	store   *dataset.Store
}

// New creates an idle session.
func New(gen *dataset.Generator, box *sandbox.Sandbox, opts ...Option) *Session {
	s := &Session{
		gen:    gen,
		box:    box,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	if s.hook != nil {
		s.hook(from, to)
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TopicID returns the selected topic identifier as given to Select.
func (s *Session) TopicID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topicID
}

// Topic returns the selected catalog entry. The second result is false when
// nothing is selected or the identifier is not in the catalog.
func (s *Session) Topic() (catalog.Topic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return catalog.Topic{}, false
	}
	return catalog.Lookup(s.topicID)
}

// Store returns the current store, nil before Select.
func (s *Session) Store() *dataset.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// Select discards the current store, generates a new one for topicID and
// runs the preview. Unknown topics get an empty description and a
// Customers-only store. A generation failure leaves the session idle.
func (s *Session) Select(ctx context.Context, topicID string) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(ctx, topicID)
}

// Regenerate rebuilds the store for the current topic with fresh values.
func (s *Session) Regenerate(ctx context.Context) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, ErrNoTopic
	}
	return s.selectLocked(ctx, s.topicID)
}

// RegenerateTopic is Regenerate for topicID: a different topic is selected
// instead, and an empty topicID regenerates whatever is current. The check
// and the rebuild happen under one lock.
func (s *Session) RegenerateTopic(ctx context.Context, topicID string) (*Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topicID != "" && (s.store == nil || s.topicID != topicID) {
		return s.selectLocked(ctx, topicID)
	}
	if s.store == nil {
		return nil, ErrNoTopic
	}
	return s.selectLocked(ctx, s.topicID)
}

func (s *Session) selectLocked(ctx context.Context, topicID string) (*Preview, error) {
	_ = s.closeStore()
	s.topicID = topicID
	s.transition(TopicSelected)

	store, err := s.gen.Generate(ctx, catalog.RequiresOrders(topicID))
	if err != nil {
		s.topicID = ""
		s.transition(Idle)
		return nil, fmt.Errorf("failed to prepare topic %q: %w", topicID, err)
	}
	s.store = store
	s.transition(StoreGenerated)

	preview := &Preview{
		TopicID:     topicID,
		Description: catalog.Describe(topicID),
	}
	if topic, ok := catalog.Lookup(topicID); ok {
		preview.Topic = &topic
	}

	// Data tables are captured before the example runs, since examples
	// such as INSERT change them.
	for _, name := range store.Tables() {
		dt := DataTable{Name: name}
		table, err := s.box.Execute(ctx, store.DB(), "SELECT * FROM "+name+";")
		if err != nil {
			dt.Error = err.Error()
		} else {
			dt.Table = table
		}
		preview.Tables = append(preview.Tables, dt)
	}

	if q, ok := catalog.CanonicalQuery(topicID); ok {
		preview.ExampleQuery = q
		preview.Example = s.execute(ctx, q)
	}
	s.transition(PreviewExecuted)
	s.transition(AwaitingInput)

	s.logger.Debug("topic selected",
		"topic", topicID,
		"tables", store.Tables(),
		"engine", store.Engine())

	return preview, nil
}

// Run executes a learner query against the current store. Query failures
// are reported in Result.Error; the returned error is only ErrNoTopic.
func (s *Session) Run(ctx context.Context, query string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runLocked(ctx, query)
}

// RunTopic runs query against topicID, selecting it first unless it is
// already current. No other call can switch topics between the two steps.
// An empty topicID runs against the current store. Selection failures are
// returned as errors.
func (s *Session) RunTopic(ctx context.Context, topicID, query string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topicID != "" && (s.store == nil || s.topicID != topicID) {
		if _, err := s.selectLocked(ctx, topicID); err != nil {
			return nil, err
		}
	}
	return s.runLocked(ctx, query)
}

func (s *Session) runLocked(ctx context.Context, query string) (*Result, error) {
	if s.store == nil {
		return nil, ErrNoTopic
	}

	var expected *sandbox.Table
	if topic, ok := catalog.Lookup(s.topicID); ok && topic.Quiz {
		if t, err := s.box.Execute(ctx, s.store.DB(), topic.ExampleQuery); err == nil && t.RowCount() > 0 {
			expected = t
		}
	}

	res := s.execute(ctx, query)
	if expected != nil && res.Table != nil {
		correct := sandbox.Same(expected, res.Table)
		res.Correct = &correct
	}

	s.transition(RunExecuted)
	s.transition(AwaitingInput)
	return res, nil
}

func (s *Session) execute(ctx context.Context, query string) *Result {
	res := &Result{Query: query}
	table, err := s.box.Execute(ctx, s.store.DB(), query)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Table = table
	return res
}

// Close discards the store and returns the session to Idle.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.closeStore()
	s.topicID = ""
	if s.state != Idle {
		s.transition(Idle)
	}
	return err
}

func (s *Session) closeStore() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}
