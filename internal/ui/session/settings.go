// Package session keeps one lesson session per browser and expires idle
// ones.
package session

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/sqlclass/internal/dataset"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
)

// Settings configures the sessions created for browsers.
type Settings struct {
	Engine       string
	Seed         uint64
	ForeignKeys  bool
	QueryTimeout time.Duration
	MaxRows      int
}

// Factory returns a new idle lesson session.
type Factory func() *lesson.Session

// NewFactory returns a Factory building sessions from s.
func NewFactory(s Settings, logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	box := sandbox.New(sandbox.Options{
		Timeout: s.QueryTimeout,
		MaxRows: s.MaxRows,
		Logger:  logger,
	})
	return func() *lesson.Session {
		opts := []dataset.Option{
			dataset.WithEngine(s.Engine),
			dataset.WithForeignKeys(s.ForeignKeys),
			dataset.WithLogger(logger),
		}
		if s.Seed != 0 {
			opts = append(opts, dataset.WithSeed(s.Seed))
		}
		return lesson.New(dataset.NewGenerator(opts...), box, lesson.WithLogger(logger))
	}
}
