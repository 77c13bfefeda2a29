package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
)

// Result table formats accepted by --format.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// ResultFormats lists the values accepted by --format.
var ResultFormats = []string{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}

// RenderResult writes a query result in the given format.
func RenderResult(w io.Writer, t *sandbox.Table, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, t)
	case FormatCSV:
		return renderCSV(w, t)
	case FormatMarkdown, "markdown":
		return renderMarkdown(w, t)
	default:
		return renderTable(w, t)
	}
}

func footer(t *sandbox.Table) string {
	if t.Statement {
		return fmt.Sprintf("(%d rows affected)", t.RowsAffected)
	}
	if t.Truncated {
		return fmt.Sprintf("(%d rows, truncated)", len(t.Rows))
	}
	return fmt.Sprintf("(%d rows)", len(t.Rows))
}

func renderTable(w io.Writer, t *sandbox.Table) error {
	if t.Statement || len(t.Columns) == 0 {
		_, _ = fmt.Fprintln(w, footer(t))
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	// Column names print as the query spelled them.
	tw.Style().Format.Header = text.FormatDefault

	headerRow := make(table.Row, len(t.Columns))
	for i, col := range t.Columns {
		headerRow[i] = col
	}
	tw.AppendHeader(headerRow)

	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = sandbox.FormatValue(v)
		}
		tw.AppendRow(row)
	}

	tw.Render()
	_, _ = fmt.Fprintln(w, footer(t))
	return nil
}

func renderJSON(w io.Writer, t *sandbox.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if t.Statement {
		return enc.Encode(map[string]int64{"rows_affected": t.RowsAffected})
	}

	results := make([]map[string]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make(map[string]any, len(t.Columns))
		for i, col := range t.Columns {
			row[col] = r[i]
		}
		results = append(results, row)
	}
	return enc.Encode(results)
}

func renderCSV(w io.Writer, t *sandbox.Table) error {
	if t.Statement {
		_, _ = fmt.Fprintln(w, footer(t))
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, r := range t.Rows {
		values := make([]string, len(r))
		for i, v := range r {
			values[i] = sandbox.FormatValue(v)
		}
		if err := cw.Write(values); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderMarkdown(w io.Writer, t *sandbox.Table) error {
	if t.Statement || len(t.Columns) == 0 {
		_, _ = fmt.Fprintln(w, footer(t))
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(t.Columns, " | "))
	seps := make([]string, len(t.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, r := range t.Rows {
		values := make([]string, len(r))
		for i, v := range r {
			values[i] = strings.ReplaceAll(sandbox.FormatValue(v), "|", `\|`)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, footer(t))
	return nil
}
