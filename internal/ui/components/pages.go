package components

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
	"github.com/leapstack-labs/sqlclass/internal/ui/resources"
)

// Element ids patched by server-sent events.
const (
	PreviewID = "preview"
	ResultID  = "result"
	NoticeID  = "notice"
)

// Page wraps body in the HTML document shell.
func Page(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.element("title", title+" · SQLClass")
		h.rawf(`<link rel="stylesheet" href="%s">`, resources.StaticPath("sqlclass.css"))
		h.rawf(`<script type="module" src="%s"></script>`, DatastarScript)
		h.raw(`</head><body>`)
		h.raw(`<header class="topbar"><a href="/" class="brand">SQLClass</a></header>`)
		h.raw(`<div hidden data-init="@get('/api/events')"></div>`)
		h.rawf(`<div id="%s"></div>`, NoticeID)
		h.raw(`<main>`)
		h.render(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

// TopicURL returns the lesson page path for a topic.
func TopicURL(id string) string {
	return "/topics/" + url.PathEscape(strings.ToLower(strings.ReplaceAll(id, " ", "_")))
}

// Home is the landing page: the introduction, the materials overview and
// the topic list.
func Home(intro, overview catalog.Guide, topics []catalog.Topic) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw(`<div class="home">`)
		h.render(ctx, guide(intro))
		h.render(ctx, guide(overview))
		h.raw(`<section class="topics">`)
		h.element("h2", "Topics")
		h.raw(`<ul>`)
		for _, t := range topics {
			h.rawf(`<li><a href="%s">`, templ.EscapeString(TopicURL(t.ID)))
			h.text(t.ID)
			h.raw(`</a>`)
			if t.MultiTable {
				h.raw(` <span class="tag">+Orders</span>`)
			}
			if t.Quiz {
				h.raw(` <span class="tag quiz">quiz</span>`)
			}
			h.raw(`</li>`)
		}
		h.raw(`</ul></section></div>`)
	})
}

func guide(g catalog.Guide) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section class="guide">`)
		h.element("h1", g.Title)
		h.prose(g.Summary)
		for _, s := range g.Sections {
			h.element("h3", s.Heading)
			if s.Body != "" {
				h.prose(s.Body)
			}
			if len(s.Items) > 0 {
				h.raw(`<ul>`)
				for _, item := range s.Items {
					h.element("li", item)
				}
				h.raw(`</ul>`)
			}
		}
		h.raw(`</section>`)
	})
}

// Lesson is the topic page: the preview, the query editor and the result
// area.
func Lesson(p *lesson.Preview, query string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		signals, _ := json.Marshal(map[string]string{"topic": p.TopicID, "sql": query})

		h.rawf(`<div class="lesson" data-signals="%s">`, templ.EscapeString(string(signals)))
		h.render(ctx, Preview(p))
		h.raw(`<section class="editor">`)
		h.element("h2", "Your query")
		h.raw(`<textarea rows="6" spellcheck="false" data-bind:sql>`)
		h.text(query)
		h.raw(`</textarea><div class="actions">`)
		h.raw(`<button data-on:click="@post('/api/run')">Run</button>`)
		h.raw(`<button class="secondary" data-on:click="@post('/api/regenerate')">New data</button>`)
		h.raw(`</div></section>`)
		h.render(ctx, Result(nil))
		h.raw(`</div>`)
	})
}

// Preview renders the topic description, its tables and the example.
func Preview(p *lesson.Preview) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<section id="%s">`, PreviewID)
		title := p.TopicID
		if p.Topic != nil {
			title = p.Topic.Title
		}
		h.element("h1", title)
		if p.Description != "" {
			h.prose(p.Description)
		} else {
			h.raw(`<p class="warning">`)
			h.text("Unknown topic: only the Customers table is available.")
			h.raw(`</p>`)
		}
		if p.Topic != nil && p.Topic.Challenge != "" {
			h.raw(`<p class="challenge"><strong>Challenge:</strong> `)
			h.text(p.Topic.Challenge)
			h.raw(`</p>`)
		}

		h.raw(`<div class="tables">`)
		for _, dt := range p.Tables {
			h.raw(`<div class="data-table">`)
			h.element("h3", dt.Name)
			if dt.Error != "" {
				h.render(ctx, errorBox(dt.Error))
			} else {
				h.render(ctx, table(dt.Table))
			}
			h.raw(`</div>`)
		}
		h.raw(`</div>`)

		if p.Example != nil {
			h.element("h2", "Example")
			h.raw(`<pre class="sql">`)
			h.text(p.Example.Query)
			h.raw(`</pre>`)
			h.render(ctx, outcome(p.Example))
		}
		h.raw(`</section>`)
	})
}

// Result renders the learner's query outcome. A nil result renders the
// empty placeholder.
func Result(res *lesson.Result) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<section id="%s">`, ResultID)
		if res != nil {
			h.element("h2", "Result")
			h.render(ctx, outcome(res))
			if res.Correct != nil {
				if *res.Correct {
					h.raw(`<p class="verdict correct">Correct! Your result matches the expected answer.</p>`)
				} else {
					h.raw(`<p class="verdict wrong">Not quite. Your result differs from the expected answer.</p>`)
				}
			}
		}
		h.raw(`</section>`)
	})
}

// ErrorMessage renders an error inside the result area.
func ErrorMessage(msg string) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.rawf(`<section id="%s">`, ResultID)
		h.render(ctx, errorBox(msg))
		h.raw(`</section>`)
	})
}

// Notice renders a banner in the notice area.
func Notice(msg string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.rawf(`<div id="%s" class="notice">`, NoticeID)
		h.text(msg)
		h.raw(`</div>`)
	})
}

// ErrorPage is a full page for failed page loads.
func ErrorPage(msg string) templ.Component {
	return Page("Error", component(func(ctx context.Context, h *htmlWriter) {
		h.element("h1", "Something went wrong")
		h.render(ctx, errorBox(msg))
		h.raw(`<p><a href="/">Back to the topics</a></p>`)
	}))
}

func outcome(res *lesson.Result) templ.Component {
	if !res.OK() {
		return errorBox(res.Error)
	}
	return table(res.Table)
}

func errorBox(msg string) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<pre class="error">`)
		h.text(msg)
		h.raw(`</pre>`)
	})
}

func table(t *sandbox.Table) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if t == nil {
			return
		}
		if t.Statement {
			h.rawf(`<p class="muted">%d rows affected</p>`, t.RowsAffected)
			return
		}
		h.raw(`<div class="scroll"><table><thead><tr>`)
		for _, col := range t.Columns {
			h.element("th", col)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range t.Rows {
			h.raw(`<tr>`)
			for _, v := range row {
				if v == nil {
					h.raw(`<td class="null">NULL</td>`)
					continue
				}
				h.element("td", sandbox.FormatValue(v))
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)
		suffix := ""
		if t.Truncated {
			suffix = ", truncated"
		}
		h.rawf(`<p class="muted">%d rows%s</p>`, t.RowCount(), suffix)
	})
}
