package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec and DB implementations.
type BaseSQLAdapter struct {
	Conn   *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.Conn != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection", "type", b.Cfg.Type)
		}
		err := b.Conn.Close()
		b.Conn = nil
		return err
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.Conn == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.Conn.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// DB returns the underlying handle, nil before Connect.
func (b *BaseSQLAdapter) DB() *sql.DB {
	return b.Conn
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.Conn != nil
}

// CountRows returns the number of rows in table, or 0 when counting fails.
func (b *BaseSQLAdapter) CountRows(ctx context.Context, table string) int64 {
	if b.Conn == nil {
		return 0
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", table) //nolint:gosec // Table names come from the catalog
	var rowCount int64
	if err := b.Conn.QueryRowContext(ctx, countQuery).Scan(&rowCount); err != nil {
		// Non-fatal error, just report 0
		return 0
	}
	return rowCount
}
