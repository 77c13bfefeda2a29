// Package adapter provides the embedded database adapter contract used by
// SQLClass to build practice stores.
//
// Concrete adapters live in pkg/adapters/ subdirectories and register
// themselves from init(). Import them with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sqlclass/pkg/adapters/sqlite"
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for opening an embedded database.
type Config struct {
	// Type specifies the engine (e.g., "sqlite", "duckdb").
	Type string

	// Path is the database location. Empty or ":memory:" means in-memory,
	// which is the only mode practice stores use.
	Path string

	// Options contains engine-specific settings (e.g., "foreign_keys": "on").
	Options map[string]string
}

// Column represents a column in a database table.
type Column struct {
	// Name is the column name
	Name string `json:"name"`

	// Type is the data type of the column
	Type string `json:"type"`

	// Nullable indicates whether the column allows NULL values
	Nullable bool `json:"nullable"`

	// PrimaryKey indicates whether the column is part of the primary key
	PrimaryKey bool `json:"primary_key"`

	// Position is the ordinal position of the column in the table
	Position int `json:"position"`
}

// Metadata holds metadata about a database table.
type Metadata struct {
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	RowCount int64    `json:"row_count"`
}

// Adapter defines the interface that all embedded database adapters must
// implement.
type Adapter interface {
	// Connect opens the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// DB exposes the underlying handle for transactions and prepared inserts.
	DB() *sql.DB

	// ListTables returns user table names in creation order.
	ListTables(ctx context.Context) ([]string, error)

	// GetTableMetadata retrieves column and row count information for a table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// DialectName returns the SQL dialect name (e.g., "sqlite", "duckdb").
	DialectName() string
}
