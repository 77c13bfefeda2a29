package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/sqlclass/internal/lesson"
)

const minSweepInterval = time.Second

type entry struct {
	sess     *lesson.Session
	lastSeen time.Time
}

// Registry maps browser session ids to lesson sessions. Sessions unused for
// longer than the TTL are closed by Sweep.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	factory Factory
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time
}

// NewRegistry creates a registry. A ttl of zero disables expiry.
func NewRegistry(factory Factory, ttl time.Duration, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		entries: make(map[string]*entry),
		factory: factory,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *lesson.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		e = &entry{sess: r.factory()}
		r.entries[id] = e
		r.logger.Debug("session created", "id", id, "sessions", len(r.entries))
	}
	e.lastSeen = r.now()
	return e.sess
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	var expired []*lesson.Session
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, e.sess)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		_ = s.Close()
	}
	if len(expired) > 0 {
		r.logger.Debug("sessions expired", "count", len(expired))
	}
	return len(expired)
}

// Reset closes every session and switches to factory for new ones.
func (r *Registry) Reset(factory Factory) {
	r.mu.Lock()
	old := r.entries
	r.entries = make(map[string]*entry)
	if factory != nil {
		r.factory = factory
	}
	r.mu.Unlock()

	for _, e := range old {
		_ = e.sess.Close()
	}
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.Reset(nil)
}

// Run sweeps periodically until ctx is done, then closes every session.
func (r *Registry) Run(ctx context.Context) error {
	defer r.CloseAll()
	if r.ttl <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(max(r.ttl/2, minSweepInterval))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Sweep()
		}
	}
}
