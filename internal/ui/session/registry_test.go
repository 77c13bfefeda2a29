package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newRegistry(t *testing.T, ttl time.Duration) (*Registry, *clock) {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	r := NewRegistry(NewFactory(Settings{Engine: "sqlite", Seed: 1}, logger), ttl, logger)
	c := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	r.now = c.Now
	t.Cleanup(r.CloseAll)
	return r, c
}

func TestRegistry_GetReusesSession(t *testing.T) {
	r, _ := newRegistry(t, time.Minute)

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.NotSame(t, a, r.Get("b"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	r, c := newRegistry(t, time.Minute)
	ctx := context.Background()

	idle := r.Get("idle")
	_, err := idle.Select(ctx, "WHERE")
	require.NoError(t, err)

	c.Advance(45 * time.Second)
	r.Get("active")
	c.Advance(30 * time.Second)

	assert.Equal(t, 1, r.Sweep())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, lesson.Idle, idle.State(), "expired session should be closed")
	assert.Nil(t, idle.Store())

	// A returning browser gets a fresh session.
	assert.NotSame(t, idle, r.Get("idle"))
}

func TestRegistry_NoTTL(t *testing.T) {
	r, c := newRegistry(t, 0)
	r.Get("a")
	c.Advance(24 * time.Hour)

	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Reset(t *testing.T) {
	r, _ := newRegistry(t, time.Minute)
	old := r.Get("a")
	_, err := old.Select(context.Background(), "SELECT")
	require.NoError(t, err)

	r.Reset(NewFactory(Settings{Engine: "sqlite", MaxRows: 5}, nil))

	assert.Equal(t, 0, r.Len())
	assert.Nil(t, old.Store())

	res, err := func() (*lesson.Result, error) {
		s := r.Get("a")
		if _, err := s.Select(context.Background(), "SELECT"); err != nil {
			return nil, err
		}
		return s.Run(context.Background(), "SELECT * FROM Customers;")
	}()
	require.NoError(t, err)
	assert.Equal(t, 5, res.Table.RowCount(), "new sessions use the new settings")
	assert.True(t, res.Table.Truncated)
}

func TestRegistry_RunClosesOnCancel(t *testing.T) {
	r, _ := newRegistry(t, time.Minute)
	r.Get("a")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, r.Len())
}
