package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestTopicURL(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "SELECT", want: "/topics/select"},
		{id: "FULL OUTER JOIN", want: "/topics/full_outer_join"},
		{id: "ORDER BY", want: "/topics/order_by"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TopicURL(tt.id))
	}
}

func TestProse(t *testing.T) {
	var buf bytes.Buffer
	h := &htmlWriter{w: &buf}
	h.prose("Use `a < b` here.\n\nSecond & last.")

	assert.Equal(t, "<p>Use <code>a &lt; b</code> here.</p><p>Second &amp; last.</p>", buf.String())
}

func TestResult(t *testing.T) {
	correct := true
	wrong := false

	tests := []struct {
		name     string
		res      *lesson.Result
		contains []string
		excludes []string
	}{
		{
			name:     "placeholder",
			res:      nil,
			contains: []string{`<section id="result"></section>`},
		},
		{
			name: "rows with null",
			res: &lesson.Result{Table: &sandbox.Table{
				Columns: []string{"Name", "City"},
				Rows:    [][]any{{"<b>Eve</b>", nil}},
			}},
			contains: []string{"<th>Name</th>", "&lt;b&gt;Eve&lt;/b&gt;", `<td class="null">NULL</td>`, "1 rows"},
			excludes: []string{"<b>Eve</b>", "verdict"},
		},
		{
			name:     "truncated",
			res:      &lesson.Result{Table: &sandbox.Table{Columns: []string{"n"}, Rows: [][]any{{int64(1)}}, Truncated: true}},
			contains: []string{"1 rows, truncated"},
		},
		{
			name:     "statement",
			res:      &lesson.Result{Table: &sandbox.Table{Statement: true, RowsAffected: 3}},
			contains: []string{"3 rows affected"},
			excludes: []string{"<table>"},
		},
		{
			name:     "query error",
			res:      &lesson.Result{Error: "no such table: Orders"},
			contains: []string{`<pre class="error">no such table: Orders</pre>`},
		},
		{
			name:     "correct",
			res:      &lesson.Result{Table: &sandbox.Table{Columns: []string{"n"}}, Correct: &correct},
			contains: []string{"Correct!"},
		},
		{
			name:     "wrong",
			res:      &lesson.Result{Table: &sandbox.Table{Columns: []string{"n"}}, Correct: &wrong},
			contains: []string{"Not quite."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, Result(tt.res))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestHome(t *testing.T) {
	out := render(t, Page("Home", Home(catalog.Introduction, catalog.Overview, catalog.Topics())))

	assert.Contains(t, out, "<title>Home · SQLClass</title>")
	assert.Contains(t, out, DatastarScript)
	assert.Contains(t, out, `<a href="/topics/left_join">LEFT JOIN</a> <span class="tag">+Orders</span>`)
	assert.Contains(t, out, `<a href="/topics/distinct">DISTINCT</a> <span class="tag quiz">quiz</span>`)
}

func TestLesson_Signals(t *testing.T) {
	p := &lesson.Preview{TopicID: "where", Description: "Filters rows."}
	out := render(t, Lesson(p, `SELECT "x" FROM Customers;`))

	assert.Contains(t, out, `data-signals="{&#34;sql&#34;:&#34;SELECT \&#34;x\&#34; FROM Customers;&#34;,&#34;topic&#34;:&#34;where&#34;}"`)
	assert.Contains(t, out, `<section id="preview">`)
	assert.Contains(t, out, `<section id="result"></section>`)
}
