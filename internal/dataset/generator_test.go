package dataset

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"slices"
	"testing"

	"github.com/leapstack-labs/sqlclass/internal/testutil"
	"github.com/leapstack-labs/sqlclass/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customer struct {
	ID       int
	Name     string
	Age      int
	City     string
	JoinDate string
}

func generate(t *testing.T, includeOrders bool, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	store, err := NewGenerator(opts...).Generate(context.Background(), includeOrders)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func readCustomers(t *testing.T, store *Store) []customer {
	t.Helper()
	rows, err := store.DB().Query("SELECT CustomerID, Name, Age, City, JoinDate FROM Customers ORDER BY CustomerID")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	var out []customer
	for rows.Next() {
		var c customer
		require.NoError(t, rows.Scan(&c.ID, &c.Name, &c.Age, &c.City, &c.JoinDate))
		out = append(out, c)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestGenerate_Customers(t *testing.T) {
	joinDate := regexp.MustCompile(`^202[0-3]-0[1-9]-(1[0-9]|2[0-8])$`)

	for _, includeOrders := range []bool{false, true} {
		name := "customers only"
		if includeOrders {
			name = "with orders"
		}
		t.Run(name, func(t *testing.T) {
			store := generate(t, includeOrders)
			customers := readCustomers(t, store)

			require.Len(t, customers, CustomerCount)
			for i, c := range customers {
				assert.Equal(t, i+1, c.ID, "ids are contiguous from 1")
				assert.Contains(t, Names, c.Name)
				assert.Contains(t, Cities, c.City)
				assert.GreaterOrEqual(t, c.Age, MinAge)
				assert.LessOrEqual(t, c.Age, MaxAge)
				assert.Regexp(t, joinDate, c.JoinDate)
			}
		})
	}
}

func TestGenerate_Orders(t *testing.T) {
	store := generate(t, true)

	assert.True(t, store.HasOrders())
	assert.Equal(t, []string{CustomersTable, OrdersTable}, store.Tables())

	rows, err := store.DB().Query("SELECT OrderID, CustomerID, Product, Amount FROM Orders ORDER BY OrderID")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	count := 0
	for rows.Next() {
		var id, customerID, amount int
		var product string
		require.NoError(t, rows.Scan(&id, &customerID, &product, &amount))
		count++
		assert.Equal(t, count, id)
		assert.Equal(t, id, customerID, "orders map 1:1 onto the first customers")
		assert.Contains(t, Products, product)
		assert.GreaterOrEqual(t, amount, MinAmount)
		assert.LessOrEqual(t, amount, MaxAmount)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, OrderCount, count)

	var orphans int
	require.NoError(t, store.DB().QueryRow(`
		SELECT COUNT(*) FROM Orders o
		LEFT JOIN Customers c ON c.CustomerID = o.CustomerID
		WHERE c.CustomerID IS NULL`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestGenerate_CustomersOnly(t *testing.T) {
	store := generate(t, false)

	assert.False(t, store.HasOrders())
	tables, err := store.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{CustomersTable}, tables)
}

func TestGenerate_Seeded(t *testing.T) {
	a := readCustomers(t, generate(t, false, WithSeed(42)))
	b := readCustomers(t, generate(t, false, WithSeed(42)))
	assert.Equal(t, a, b, "same seed yields the same rows")

	c := readCustomers(t, generate(t, false, WithRand(rand.New(rand.NewPCG(1, 2)))))
	assert.NotEqual(t, a, c)
}

func TestGenerate_StoresAreIndependent(t *testing.T) {
	gen := NewGenerator(WithSeed(7))
	ctx := context.Background()

	first, err := gen.Generate(ctx, false)
	require.NoError(t, err)
	defer func() { _ = first.Close() }()

	second, err := gen.Generate(ctx, false)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	_, err = first.DB().Exec("DELETE FROM Customers")
	require.NoError(t, err)

	assert.Len(t, readCustomers(t, second), CustomerCount)
	assert.Empty(t, readCustomers(t, first))
}

func TestGenerate_Metadata(t *testing.T) {
	store := generate(t, true)

	meta, err := store.TableMetadata(context.Background(), CustomersTable)
	require.NoError(t, err)
	assert.Equal(t, int64(CustomerCount), meta.RowCount)

	var names []string
	for _, col := range meta.Columns {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"CustomerID", "Name", "Age", "City", "JoinDate"}, names)
}

func TestGenerate_ForeignKeys(t *testing.T) {
	store := generate(t, true, WithForeignKeys(true))

	_, err := store.DB().Exec("INSERT INTO Orders VALUES (21, 99, 'Mouse', 1)")
	assert.Error(t, err, "orphan order must be rejected when foreign keys are on")
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("unknown engine", func(t *testing.T) {
		_, err := NewGenerator(WithEngine("oracle")).Generate(context.Background(), false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrGeneration))

		var unknown *adapter.UnknownAdapterError
		assert.True(t, errors.As(err, &unknown))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewGenerator().Generate(ctx, true)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGeneration)
	})
}

func TestStore_Close(t *testing.T) {
	store, err := NewGenerator().Generate(context.Background(), false)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.NoError(t, store.Close(), "second close is a no-op")
	assert.Nil(t, store.DB())
}

func TestGenerator_Defaults(t *testing.T) {
	gen := NewGenerator(WithEngine(""), WithRand(nil), WithLogger(nil))
	assert.Equal(t, DefaultEngine, gen.Engine())
	assert.True(t, slices.Contains(adapter.ListAdapters(), DefaultEngine))
}
