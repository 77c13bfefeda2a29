package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/pkg/adapter"
)

// printGuide writes a guide page in the renderer's mode.
func printGuide(r *output.Renderer, g catalog.Guide) {
	r.Header(1, g.Title)
	r.Println(g.Summary)
	for _, sec := range g.Sections {
		r.Println()
		r.Header(2, sec.Heading)
		if sec.Body != "" {
			r.Println(sec.Body)
		}
		for _, item := range sec.Items {
			r.Println("- " + item)
		}
	}
	r.Println()
}

// printPreview writes the topic description, its data tables and the
// example result. JSON mode writes the preview as one document.
func printPreview(r *output.Renderer, p *lesson.Preview, format string) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(p)
	}

	title := p.TopicID
	if p.Topic != nil {
		title = p.Topic.Title
	}
	r.Header(1, title)
	if p.Description != "" {
		r.Println(p.Description)
	} else {
		r.Warning(fmt.Sprintf("unknown topic %q, showing the Customers table only", p.TopicID))
	}
	if p.Topic != nil && p.Topic.Challenge != "" {
		r.Println()
		r.Println("Challenge: " + p.Topic.Challenge)
	}

	for _, dt := range p.Tables {
		r.Println()
		r.Header(2, dt.Name)
		if dt.Error != "" {
			r.Error(dt.Error)
			continue
		}
		if err := output.RenderResult(r.Writer(), dt.Table, format); err != nil {
			return err
		}
	}

	if p.Example != nil {
		r.Println()
		r.Header(2, "Example")
		printQuery(r, p.Example.Query)
		if err := printResult(r, p.Example, format); err != nil {
			return err
		}
	}
	return nil
}

// printResult writes a query result. A failed query is reported on the
// error output and is not a Go error.
func printResult(r *output.Renderer, res *lesson.Result, format string) error {
	if !res.OK() {
		r.Error(res.Error)
		return nil
	}
	if err := output.RenderResult(r.Writer(), res.Table, format); err != nil {
		return err
	}
	printVerdict(r, res)
	return nil
}

func printVerdict(r *output.Renderer, res *lesson.Result) {
	if res.Correct == nil {
		return
	}
	if *res.Correct {
		r.Success("Correct! Your result matches the expected answer.")
		return
	}
	r.Warning("Not quite. Your result differs from the expected answer.")
}

func printQuery(r *output.Renderer, query string) {
	query = strings.TrimSpace(query)
	if r.EffectiveMode() == output.ModeText {
		r.Println(r.Styles().Code.Render(query))
		return
	}
	r.Println(output.FormatCodeBlock("sql", query))
}

// writeSchema writes the columns of one store table.
func writeSchema(w io.Writer, meta *adapter.Metadata) {
	_, _ = fmt.Fprintf(w, "%s (%d rows)\n", meta.Name, meta.RowCount)
	for _, c := range meta.Columns {
		flags := ""
		if c.PrimaryKey {
			flags = " PRIMARY KEY"
		}
		_, _ = fmt.Fprintf(w, "  %-12s %s%s\n", c.Name, c.Type, flags)
	}
}

// resultFormat validates a --format value.
func resultFormat(format string) (string, error) {
	for _, f := range output.ResultFormats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid format %q (valid: %s)", format, strings.Join(output.ResultFormats, ", "))
}
