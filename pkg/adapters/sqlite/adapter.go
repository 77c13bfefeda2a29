package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/sqlclass/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

const memoryPath = ":memory:"

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter

	// anchor keeps a shared-cache in-memory database alive while the pool
	// recycles its other connections.
	anchor *sql.Conn
}

// New creates a new SQLite adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger}}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlite"
}

// Connect opens the database. An empty path means ":memory:".
//
// ":memory:" is opened as a uniquely named shared-cache database so every
// pooled connection sees the same data. One connection is held as an
// anchor until Close, because SQLite drops the database once its last
// connection closes and database/sql discards connections after a
// cancelled query.
//
// Options:
//
//	foreign_keys = on   enforce FOREIGN KEY clauses (SQLite default is off)
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = memoryPath
	}
	memory := path == memoryPath

	dsn := path
	if memory {
		dsn = "file:sqlclass-" + uuid.NewString() + "?mode=memory&cache=shared"
	}
	// Pragmas in the DSN are applied to every new connection, not just the
	// first one.
	if strings.EqualFold(cfg.Options["foreign_keys"], "on") {
		dsn = withParam(dsn, "_pragma=foreign_keys(1)")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite connection: %w", err)
	}

	var anchor *sql.Conn
	if memory {
		// Anchor plus one working connection. Shared-cache connections lock
		// at table level, so more would only trade throughput for
		// SQLITE_LOCKED errors.
		db.SetMaxOpenConns(2)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)

		anchor, err = db.Conn(ctx)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to open sqlite connection: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		if anchor != nil {
			_ = anchor.Close()
		}
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.Conn = db
	a.anchor = anchor
	a.Cfg = cfg
	a.Cfg.Type = "sqlite"
	a.Logger.Debug("sqlite connected", "path", path)

	return nil
}

// Close releases the anchor connection, then the pool.
func (a *Adapter) Close() error {
	if a.anchor != nil {
		_ = a.anchor.Close()
		a.anchor = nil
	}
	return a.BaseSQLAdapter.Close()
}

func withParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	return dsn + "?" + param
}

// ListTables returns user tables in creation order.
func (a *Adapter) ListTables(ctx context.Context) ([]string, error) {
	if a.Conn == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	rows, err := a.Conn.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetTableMetadata retrieves metadata for a specified table.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.Conn == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	// pragma_table_info accepts a bound parameter, unlike PRAGMA table_info(...).
	rows, err := a.Conn.QueryContext(ctx, `
		SELECT cid, name, type, "notnull", pk
		FROM pragma_table_info(?)
		ORDER BY cid
	`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []adapter.Column
	for rows.Next() {
		var col adapter.Column
		var notNull, pk int
		if err := rows.Scan(&col.Position, &col.Name, &col.Type, &notNull, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Position++
		col.Nullable = notNull == 0 && pk == 0
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}

	return &adapter.Metadata{
		Name:     table,
		Columns:  columns,
		RowCount: a.CountRows(ctx, table),
	}, nil
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
