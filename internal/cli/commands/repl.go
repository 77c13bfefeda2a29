package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "sqlclass> "
	replContPrompt = "    ...> "
	historyName    = ".sqlclass_history"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "repl [topic]",
		Short: "Practise interactively",
		Long: `Start an interactive SQL prompt.

Pick a topic with .topic <id> (or pass it as an argument), then type SQL
ending with a semicolon. Each topic gets freshly generated sample data;
.regen replaces it with new values.`,
		Example: `  sqlclass repl
  sqlclass repl where`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resultFormat(format)
			if err != nil {
				return err
			}
			topicID := ""
			if len(args) > 0 {
				topicID = args[0]
			}
			return runREPL(cmd, topicID, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", output.FormatTable, "Output format: table, json, csv, md")

	return cmd
}

// repl holds the state of one interactive session. It is driven line by
// line so the dot-commands work without a terminal.
type repl struct {
	sess   *lesson.Session
	r      *output.Renderer
	format string
	buf    strings.Builder
}

func newREPL(sess *lesson.Session, r *output.Renderer, format string) *repl {
	return &repl{sess: sess, r: r, format: format}
}

// prompt returns the prompt for the next line.
func (p *repl) prompt() string {
	if p.buf.Len() > 0 {
		return replContPrompt
	}
	if id := p.sess.TopicID(); id != "" {
		return fmt.Sprintf("sqlclass[%s]> ", strings.ToLower(id))
	}
	return replPrompt
}

// reset drops a partially typed statement.
func (p *repl) reset() {
	p.buf.Reset()
}

// handleLine processes one input line and reports whether to exit.
func (p *repl) handleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if p.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return p.handleDotCommand(ctx, line)
	}

	// Accumulate multi-line SQL until semicolon
	p.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		p.buf.WriteString("\n")
		return false
	}
	query := p.buf.String()
	p.buf.Reset()

	p.runQuery(ctx, query)
	p.r.Println()
	return false
}

func (p *repl) runQuery(ctx context.Context, query string) {
	res, err := p.sess.Run(ctx, query)
	if errors.Is(err, lesson.ErrNoTopic) {
		p.r.Error("no topic selected (use .topic <id>, see .topics)")
		return
	}
	if err != nil {
		p.r.Error(err.Error())
		return
	}
	if err := printResult(p.r, res, p.format); err != nil {
		p.r.Error(err.Error())
	}
}

func (p *repl) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	arg := strings.Join(parts[1:], " ")

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(p.r.Writer())

	case ".topics":
		for _, t := range catalog.Topics() {
			p.r.Printf("  %-16s%s\n", t.ID, topicTags(t))
		}

	case ".topic":
		if arg == "" {
			p.r.Error("Usage: .topic <id>")
			return false
		}
		p.selectTopic(ctx, arg)

	case ".regen":
		preview, err := p.sess.Regenerate(ctx)
		if err != nil {
			p.r.Error(err.Error())
			return false
		}
		p.printTables(preview)
		p.r.Success("Regenerated sample data")

	case ".describe":
		topic, ok := p.sess.Topic()
		if !ok {
			p.r.Error("no topic selected")
			return false
		}
		p.r.Println(topic.Description)
		if topic.Challenge != "" {
			p.r.Println("Challenge: " + topic.Challenge)
		}

	case ".example":
		topic, ok := p.sess.Topic()
		if !ok || topic.ExampleQuery == "" {
			p.r.Error("no example for the current topic")
			return false
		}
		printQuery(p.r, topic.ExampleQuery)
		p.runQuery(ctx, topic.ExampleQuery)

	case ".tables":
		store := p.sess.Store()
		if store == nil {
			p.r.Error("no topic selected")
			return false
		}
		for _, name := range store.Tables() {
			p.r.Println(name)
		}

	case ".schema":
		store := p.sess.Store()
		if store == nil {
			p.r.Error("no topic selected")
			return false
		}
		names := store.Tables()
		if arg != "" {
			names = []string{arg}
		}
		for _, name := range names {
			meta, err := store.TableMetadata(ctx, name)
			if err != nil {
				p.r.Error(err.Error())
				continue
			}
			writeSchema(p.r.Writer(), meta)
		}

	case ".clear":
		p.r.Printf("\033[H\033[2J")

	default:
		p.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (p *repl) selectTopic(ctx context.Context, id string) {
	preview, err := p.sess.Select(ctx, id)
	if err != nil {
		p.r.Error(err.Error())
		return
	}
	if preview.Description == "" {
		p.r.Warning(fmt.Sprintf("unknown topic %q, Customers table only", id))
		return
	}
	p.r.Header(2, preview.Topic.Title)
	p.r.Println(preview.Description)
	if preview.Topic.Challenge != "" {
		p.r.Println("Challenge: " + preview.Topic.Challenge)
	}
	p.printTables(preview)
}

func (p *repl) printTables(preview *lesson.Preview) {
	for _, dt := range preview.Tables {
		rows := 0
		if dt.Table != nil {
			rows = dt.Table.RowCount()
		}
		p.r.Muted(fmt.Sprintf("%s: %d rows", dt.Name, rows))
	}
}

// tableNames feeds tab completion from the current store.
func (p *repl) tableNames(string) []string {
	if store := p.sess.Store(); store != nil {
		return store.Tables()
	}
	return nil
}

func (p *repl) completer() *readline.PrefixCompleter {
	topicItems := make([]readline.PrefixCompleterInterface, 0, len(catalog.IDs()))
	for _, id := range catalog.IDs() {
		topicItems = append(topicItems, readline.PcItem(strings.ReplaceAll(strings.ToLower(id), " ", "_")))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".topics"),
		readline.PcItem(".topic", topicItems...),
		readline.PcItem(".describe"),
		readline.PcItem(".example"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema", readline.PcItemDynamic(p.tableNames)),
		readline.PcItem(".regen"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
		readline.PcItem("SELECT"),
		readline.PcItemDynamic(p.tableNames),
	)
}

func runREPL(cmd *cobra.Command, topicID, format string) error {
	ctx := cmd.Context()
	c := NewCommandContext(cmd)
	sess := c.Session()
	defer func() { _ = sess.Close() }()

	p := newREPL(sess, c.Renderer, format)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    p.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	c.Renderer.Println("SQLClass REPL (engine: " + c.Cfg.Engine + ")")
	c.Renderer.Println("Type .help for commands, .quit to exit")
	c.Renderer.Println()

	if topicID != "" {
		p.selectTopic(ctx, topicID)
	}

	for {
		rl.SetPrompt(p.prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			p.reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if p.handleLine(ctx, line) {
			break
		}
	}

	return nil
}

// historyFile returns the REPL history path in the home directory, or ""
// (no history) when it cannot be resolved.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyName)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .topics          List all topics
  .topic <id>      Switch topic and generate fresh data
  .describe        Show the current topic's description
  .example         Run the current topic's example query
  .tables          List the sample tables
  .schema [table]  Show columns of the sample tables
  .regen           Regenerate the sample data
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}
