package tui

import (
	"strings"

	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
)

func renderLesson(s output.Styles, p *lesson.Preview, res *lesson.Result) string {
	var b strings.Builder

	if p.Description != "" {
		b.WriteString(p.Description + "\n")
	} else {
		b.WriteString(s.Warning.Render("Unknown topic: only the Customers table is available.") + "\n")
	}
	if p.Topic != nil && p.Topic.Challenge != "" {
		b.WriteString("\n" + s.Key.Render("Challenge: ") + p.Topic.Challenge + "\n")
	}

	for _, dt := range p.Tables {
		b.WriteString("\n" + s.Subheader.Render(dt.Name) + "\n")
		if dt.Error != "" {
			b.WriteString(s.Error.Render(dt.Error) + "\n")
			continue
		}
		writeTable(&b, dt.Table)
	}

	if p.Example != nil {
		b.WriteString("\n" + s.Subheader.Render("Example") + "\n")
		b.WriteString(s.Code.Render(p.Example.Query) + "\n")
		writeResult(&b, s, p.Example)
	}

	if res != nil {
		b.WriteString("\n" + s.Subheader.Render("Your result") + "\n")
		writeResult(&b, s, res)
		if res.Correct != nil {
			if *res.Correct {
				b.WriteString(s.Success.Render("✓ Correct!") + "\n")
			} else {
				b.WriteString(s.Warning.Render("! Not quite, compare with the challenge.") + "\n")
			}
		}
	}

	return b.String()
}

func writeResult(b *strings.Builder, s output.Styles, res *lesson.Result) {
	if !res.OK() {
		b.WriteString(s.Error.Render("✗ "+res.Error) + "\n")
		return
	}
	writeTable(b, res.Table)
}

func writeTable(b *strings.Builder, t *sandbox.Table) {
	_ = output.RenderResult(b, t, output.FormatTable)
}
