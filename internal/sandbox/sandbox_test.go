package sandbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/sqlclass/internal/dataset"
	"github.com/leapstack-labs/sqlclass/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, includeOrders bool) *dataset.Store {
	t.Helper()
	store, err := dataset.NewGenerator(dataset.WithSeed(1)).Generate(context.Background(), includeOrders)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newMock(t *testing.T) (sqlmock.Sqlmock, Querier) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, db
}

func TestExecute_SelectAll(t *testing.T) {
	store := newStore(t, false)
	box := New(Options{Logger: testutil.NewTestLogger(t)})

	table, err := box.Execute(context.Background(), store.DB(), "SELECT * FROM Customers;")
	require.NoError(t, err)

	assert.Equal(t, []string{"CustomerID", "Name", "Age", "City", "JoinDate"}, table.Columns)
	assert.Equal(t, dataset.CustomerCount, table.RowCount())
	assert.False(t, table.Statement)
	assert.False(t, table.Truncated)
	for _, row := range table.Rows {
		require.Len(t, row, 5)
		assert.IsType(t, "", row[1], "text columns are strings")
	}
}

func TestExecute_ErrorsLeaveStoreUsable(t *testing.T) {
	store := newStore(t, false)
	box := New(Options{})
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
	}{
		{name: "unknown table", query: "SELECT * FROM NoSuchTable;"},
		{name: "syntax error", query: "SELEKT * FROM Customers"},
		{name: "unknown column", query: "SELECT Salary FROM Customers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := box.Execute(ctx, store.DB(), tt.query)
			require.Error(t, err)
			assert.Nil(t, table)

			var qerr *QueryError
			require.True(t, errors.As(err, &qerr))
			assert.Equal(t, tt.query, qerr.Query)
			assert.NotEmpty(t, qerr.Error())

			table, err = box.Execute(ctx, store.DB(), "SELECT COUNT(*) FROM Customers")
			require.NoError(t, err)
			assert.EqualValues(t, dataset.CustomerCount, table.Rows[0][0])
		})
	}
}

func TestExecute_EmptyQuery(t *testing.T) {
	_, db := newMock(t)
	box := New(Options{})

	for _, q := range []string{"", "   \n\t", "-- only a comment", "/* block */"} {
		_, err := box.Execute(context.Background(), db, q)
		require.Error(t, err, q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.Equal(t, "query is empty", err.Error())
	}
}

func TestExecute_Statements(t *testing.T) {
	store := newStore(t, false)
	box := New(Options{})
	ctx := context.Background()

	table, err := box.Execute(ctx, store.DB(), "UPDATE Customers SET City = 'Bandung' WHERE CustomerID <= 3;")
	require.NoError(t, err)
	assert.True(t, table.Statement)
	assert.Equal(t, int64(3), table.RowsAffected)
	assert.Empty(t, table.Columns)

	table, err = box.Execute(ctx, store.DB(), "-- add one\nINSERT INTO Customers VALUES (41, 'Eve', 33, 'Medan', '2023-01-11');")
	require.NoError(t, err)
	assert.Equal(t, int64(1), table.RowsAffected)

	table, err = box.Execute(ctx, store.DB(), "DELETE FROM Customers WHERE CustomerID = 41 RETURNING Name;")
	require.NoError(t, err)
	assert.False(t, table.Statement, "RETURNING yields rows")
	assert.Equal(t, [][]any{{"Eve"}}, table.Rows)
}

func TestExecute_NullValues(t *testing.T) {
	store := newStore(t, true)
	box := New(Options{})

	table, err := box.Execute(context.Background(), store.DB(), `
		SELECT c.CustomerID, o.OrderID FROM Customers c
		LEFT JOIN Orders o ON c.CustomerID = o.CustomerID
		WHERE c.CustomerID = 40`)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Nil(t, table.Rows[0][1])
	assert.Equal(t, "NULL", FormatValue(table.Rows[0][1]))
}

func TestExecute_MaxRows(t *testing.T) {
	store := newStore(t, false)
	ctx := context.Background()

	table, err := New(Options{MaxRows: 10}).Execute(ctx, store.DB(), "SELECT * FROM Customers")
	require.NoError(t, err)
	assert.Equal(t, 10, table.RowCount())
	assert.True(t, table.Truncated)

	table, err = New(Options{MaxRows: dataset.CustomerCount}).Execute(ctx, store.DB(), "SELECT * FROM Customers")
	require.NoError(t, err)
	assert.Equal(t, dataset.CustomerCount, table.RowCount())
	assert.False(t, table.Truncated, "exactly MaxRows rows is not truncated")
}

func TestExecute_Timeout(t *testing.T) {
	mock, db := newMock(t)
	mock.ExpectQuery("SELECT * FROM Customers").
		WillDelayFor(time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"CustomerID"}).AddRow(1))

	box := New(Options{Timeout: 20 * time.Millisecond})
	_, err := box.Execute(context.Background(), db, "SELECT * FROM Customers")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "query exceeded 20ms timeout")
}

func TestExecute_TimeoutKeepsStore(t *testing.T) {
	store := newStore(t, true)
	ctx := context.Background()
	box := New(Options{Timeout: 100 * time.Millisecond})

	for range 2 {
		_, err := box.Execute(ctx, store.DB(),
			"WITH RECURSIVE r(n) AS (SELECT 1 UNION ALL SELECT n+1 FROM r) SELECT COUNT(*) FROM r;")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		table, err := box.Execute(ctx, store.DB(), "SELECT COUNT(*) FROM Customers;")
		require.NoError(t, err, "the store outlives a timed-out query")
		assert.EqualValues(t, dataset.CustomerCount, table.Rows[0][0])

		table, err = box.Execute(ctx, store.DB(), "SELECT COUNT(*) FROM Orders;")
		require.NoError(t, err)
		assert.EqualValues(t, dataset.OrderCount, table.Rows[0][0])
	}
}

func TestExecute_DriverErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("query error", func(t *testing.T) {
		mock, db := newMock(t)
		mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("no such table: x"))

		_, err := New(Options{}).Execute(ctx, db, "SELECT 1")
		require.Error(t, err)
		assert.Equal(t, "no such table: x", err.Error())
	})

	t.Run("row error", func(t *testing.T) {
		mock, db := newMock(t)
		mock.ExpectQuery("SELECT Name FROM Customers").WillReturnRows(
			sqlmock.NewRows([]string{"Name"}).
				AddRow("Alice").
				AddRow("Bob").
				RowError(1, errors.New("disk I/O error")))

		_, err := New(Options{}).Execute(ctx, db, "SELECT Name FROM Customers")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk I/O error")
	})

	t.Run("exec error", func(t *testing.T) {
		mock, db := newMock(t)
		mock.ExpectExec("DROP TABLE Customers").WillReturnError(errors.New("table is locked"))

		_, err := New(Options{}).Execute(ctx, db, "DROP TABLE Customers")
		var qerr *QueryError
		require.ErrorAs(t, err, &qerr)
		assert.Equal(t, "table is locked", qerr.Error())
	})

	t.Run("bytes become strings", func(t *testing.T) {
		mock, db := newMock(t)
		mock.ExpectQuery("SELECT Name FROM Customers").WillReturnRows(
			sqlmock.NewRows([]string{"Name"}).AddRow([]byte("Helen")))

		table, err := New(Options{}).Execute(ctx, db, "SELECT Name FROM Customers")
		require.NoError(t, err)
		assert.Equal(t, [][]any{{"Helen"}}, table.Rows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNew_ClampsNegativeLimits(t *testing.T) {
	box := New(Options{Timeout: -time.Second, MaxRows: -5})
	assert.Zero(t, box.Timeout())
	assert.Zero(t, box.MaxRows())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{[]byte("abc"), "abc"},
		{"Jakarta", "Jakarta"},
		{int64(42), "42"},
		{3.5, "3.5"},
		{true, "true"},
		{time.Date(2023, 5, 17, 0, 0, 0, 0, time.UTC), "2023-05-17"},
		{time.Date(2023, 5, 17, 8, 30, 0, 0, time.UTC), "2023-05-17 08:30:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}
