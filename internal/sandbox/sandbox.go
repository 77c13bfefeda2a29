// Package sandbox runs learner-supplied SQL against a lesson store.
//
// Queries go to the engine unmodified. The sandbox is not a security
// boundary: the optional timeout and row cap only keep a runaway query
// from stalling a shared server.
package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrEmptyQuery is returned for blank query text.
var ErrEmptyQuery = errors.New("query is empty")

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx the sandbox needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// QueryError carries the engine's diagnostic for a failed query.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Table is a successful query result. Rows hold normalised values:
// NULL is nil and []byte is converted to string.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	// Statement is set for statements run without a result set.
	Statement    bool          `json:"statement,omitempty"`
	RowsAffected int64         `json:"rows_affected,omitempty"`
	Truncated    bool          `json:"truncated,omitempty"`
	Elapsed      time.Duration `json:"-"`
}

// RowCount returns the number of rows held.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Options configures a Sandbox. Zero values disable the limit.
type Options struct {
	Timeout time.Duration
	MaxRows int
	Logger  *slog.Logger
}

// Sandbox executes queries with optional limits.
type Sandbox struct {
	timeout time.Duration
	maxRows int
	logger  *slog.Logger
}

// New creates a sandbox.
func New(opts Options) *Sandbox {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sandbox{
		timeout: max(opts.Timeout, 0),
		maxRows: max(opts.MaxRows, 0),
		logger:  logger,
	}
}

// Timeout returns the per-query timeout, zero when unlimited.
func (s *Sandbox) Timeout() time.Duration {
	return s.timeout
}

// MaxRows returns the row cap, zero when unlimited.
func (s *Sandbox) MaxRows() int {
	return s.maxRows
}

// Execute runs query against q. Every failure is a *QueryError.
func (s *Sandbox) Execute(ctx context.Context, q Querier, query string) (*Table, error) {
	if isBlank(query) {
		return nil, &QueryError{Query: query, Err: ErrEmptyQuery}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	var (
		t   *Table
		err error
	)
	if isStatement(query) {
		t, err = s.exec(ctx, q, query)
	} else {
		t, err = s.query(ctx, q, query)
	}
	elapsed := time.Since(start)

	if err != nil {
		if s.timeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("query exceeded %s timeout: %w", s.timeout, context.DeadlineExceeded)
		}
		s.logger.Debug("query failed", "error", err, "elapsed", elapsed)
		return nil, &QueryError{Query: query, Err: err}
	}

	t.Elapsed = elapsed
	s.logger.Debug("query executed",
		"rows", len(t.Rows),
		"rows_affected", t.RowsAffected,
		"truncated", t.Truncated,
		"elapsed", elapsed)
	return t, nil
}

func (s *Sandbox) exec(ctx context.Context, q Querier, query string) (*Table, error) {
	res, err := q.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}
	t := &Table{Statement: true}
	// Some drivers cannot report affected rows; that is not a query failure.
	if n, err := res.RowsAffected(); err == nil {
		t.RowsAffected = n
	}
	return t, nil
}

func (s *Sandbox) query(ctx context.Context, q Querier, query string) (*Table, error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		if s.maxRows > 0 && len(t.Rows) == s.maxRows {
			t.Truncated = true
			break
		}

		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			values[i] = normalize(v)
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// FormatValue renders a result value for display.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.DateTime)
	default:
		return fmt.Sprintf("%v", v)
	}
}
