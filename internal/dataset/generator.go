// Package dataset builds the throwaway sample database a lesson runs against.
package dataset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/leapstack-labs/sqlclass/pkg/adapter"

	_ "github.com/leapstack-labs/sqlclass/pkg/adapters/sqlite" // default engine
)

// Table names and row counts of a generated store.
const (
	CustomersTable = "Customers"
	OrdersTable    = "Orders"

	CustomerCount = 40
	OrderCount    = 20

	DefaultEngine = "sqlite"
)

// Value pools sampled with replacement.
var (
	Names    = []string{"Alice", "Bob", "Charlie", "David", "Eve", "Fanny", "George", "Helen"}
	Cities   = []string{"Jakarta", "Bandung", "Surabaya", "Medan", "Makassar"}
	Products = []string{"Laptop", "HP", "Tablet", "Headset", "Mouse"}
)

// Age and amount bounds, inclusive.
const (
	MinAge    = 18
	MaxAge    = 60
	MinAmount = 1
	MaxAmount = 5
)

// ErrGeneration wraps every failure to build a store.
var ErrGeneration = errors.New("dataset generation failed")

const (
	createCustomers = `CREATE TABLE Customers (
	CustomerID INTEGER PRIMARY KEY,
	Name TEXT,
	Age INTEGER,
	City TEXT,
	JoinDate TEXT
)`
	createOrders = `CREATE TABLE Orders (
	OrderID INTEGER PRIMARY KEY,
	CustomerID INTEGER,
	Product TEXT,
	Amount INTEGER,
	FOREIGN KEY (CustomerID) REFERENCES Customers(CustomerID)
)`
	insertCustomer = "INSERT INTO Customers VALUES (?, ?, ?, ?, ?)"
	insertOrder    = "INSERT INTO Orders VALUES (?, ?, ?, ?)"
)

// Generator creates stores filled with random sample rows.
// It is safe for concurrent use.
type Generator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	engine      string
	foreignKeys bool
	logger      *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithSeed uses a deterministic PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // sample data
	}
}

// WithEngine selects the adapter used for new stores ("sqlite" or "duckdb").
func WithEngine(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.engine = name
		}
	}
}

// WithForeignKeys turns on foreign key enforcement where the engine makes it optional.
func WithForeignKeys(on bool) Option {
	return func(g *Generator) { g.foreignKeys = on }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a generator. Without WithRand or WithSeed the
// source is seeded from the runtime generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // sample data
		engine: DefaultEngine,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Engine returns the adapter name used for new stores.
func (g *Generator) Engine() string {
	return g.engine
}

type customerRow struct {
	id       int
	name     string
	age      int
	city     string
	joinDate string
}

type orderRow struct {
	id         int
	customerID int
	product    string
	amount     int
}

func (g *Generator) sample(includeOrders bool) ([]customerRow, []orderRow) {
	g.mu.Lock()
	defer g.mu.Unlock()

	pick := func(pool []string) string { return pool[g.rng.IntN(len(pool))] }
	between := func(lo, hi int) int { return lo + g.rng.IntN(hi-lo+1) }

	customers := make([]customerRow, CustomerCount)
	for i := range customers {
		customers[i] = customerRow{
			id:   i + 1,
			name: pick(Names),
			age:  between(MinAge, MaxAge),
			city: pick(Cities),
			// Day and month are not checked against the calendar.
			joinDate: fmt.Sprintf("202%d-0%d-%d", between(0, 3), between(1, 9), between(10, 28)),
		}
	}

	if !includeOrders {
		return customers, nil
	}

	orders := make([]orderRow, OrderCount)
	for i := range orders {
		orders[i] = orderRow{
			id:         i + 1,
			customerID: i + 1,
			product:    pick(Products),
			amount:     between(MinAmount, MaxAmount),
		}
	}
	return customers, orders
}

// Generate builds a fresh in-memory store. Orders is created only when
// includeOrders is set. The caller owns the store and must Close it.
func (g *Generator) Generate(ctx context.Context, includeOrders bool) (*Store, error) {
	cfg := adapter.Config{Type: g.engine, Path: ":memory:"}
	if g.foreignKeys {
		cfg.Options = map[string]string{"foreign_keys": "on"}
	}

	adp, err := adapter.NewAdapter(cfg, g.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	customers, orders := g.sample(includeOrders)
	if err := populate(ctx, adp.DB(), customers, orders); err != nil {
		_ = adp.Close()
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	tables := []string{CustomersTable}
	if includeOrders {
		tables = append(tables, OrdersTable)
	}

	g.logger.Debug("dataset generated",
		"engine", g.engine,
		"customers", len(customers),
		"orders", len(orders))

	return &Store{adp: adp, engine: g.engine, tables: tables}, nil
}

func populate(ctx context.Context, db *sql.DB, customers []customerRow, orders []orderRow) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, createCustomers); err != nil {
		return fmt.Errorf("failed to create %s: %w", CustomersTable, err)
	}
	if err = insertRows(ctx, tx, insertCustomer, len(customers), func(i int) []any {
		c := customers[i]
		return []any{c.id, c.name, c.age, c.city, c.joinDate}
	}); err != nil {
		return fmt.Errorf("failed to populate %s: %w", CustomersTable, err)
	}

	if orders != nil {
		if _, err = tx.ExecContext(ctx, createOrders); err != nil {
			return fmt.Errorf("failed to create %s: %w", OrdersTable, err)
		}
		if err = insertRows(ctx, tx, insertOrder, len(orders), func(i int) []any {
			o := orders[i]
			return []any{o.id, o.customerID, o.product, o.amount}
		}); err != nil {
			return fmt.Errorf("failed to populate %s: %w", OrdersTable, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertRows(ctx context.Context, tx *sql.Tx, query string, n int, args func(int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return nil
}
