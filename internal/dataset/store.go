package dataset

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/leapstack-labs/sqlclass/pkg/adapter"
)

// Store is one generated sample database. It belongs to a single lesson
// interaction and is never shared.
type Store struct {
	adp       adapter.Adapter
	engine    string
	tables    []string
	closeOnce sync.Once
	closeErr  error
}

// DB returns the underlying handle. It is nil after Close.
func (s *Store) DB() *sql.DB {
	return s.adp.DB()
}

// Engine returns the adapter name backing the store.
func (s *Store) Engine() string {
	return s.engine
}

// Tables returns the tables the generator created, in creation order.
func (s *Store) Tables() []string {
	return slices.Clone(s.tables)
}

// HasOrders reports whether the Orders table was generated.
func (s *Store) HasOrders() bool {
	return slices.Contains(s.tables, OrdersTable)
}

// ListTables returns the tables currently in the database, including any
// the learner created.
func (s *Store) ListTables(ctx context.Context) ([]string, error) {
	return s.adp.ListTables(ctx)
}

// TableMetadata describes the columns and row count of a table.
func (s *Store) TableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	return s.adp.GetTableMetadata(ctx, table)
}

// Close releases the database. It is safe to call more than once.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.adp.Close()
	})
	return s.closeErr
}
