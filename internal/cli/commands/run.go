package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/spf13/cobra"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Format  string
	Input   string
	Preview bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run <topic> [SQL]",
		Short: "Run your own query against a topic's sample data",
		Long: `Generate the sample data for a topic and run a query against it.

The query comes from the arguments, from --input or from piped stdin.
Without any of them on a terminal, an interactive REPL starts instead.
Every invocation gets freshly generated data.

For quiz topics the result is compared with the expected answer.`,
		Example: `  sqlclass run where "SELECT * FROM Customers WHERE Age > 30;"
  sqlclass run "inner join" -i my_join.sql
  echo "SELECT DISTINCT City FROM Customers;" | sqlclass run distinct
  sqlclass run select --seed 42 "SELECT Name FROM Customers" -f csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", output.FormatTable, "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "Print the topic preview before the result")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	format, err := resultFormat(opts.Format)
	if err != nil {
		return err
	}
	topicID := args[0]

	var sqlQuery string
	switch {
	case len(args) > 1:
		sqlQuery = strings.Join(args[1:], " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case stdinIsPiped(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runREPL(cmd, topicID, format)
	}

	c := NewCommandContext(cmd)
	sess := c.Session()
	defer func() { _ = sess.Close() }()

	preview, err := sess.Select(cmd.Context(), topicID)
	if err != nil {
		return err
	}
	if opts.Preview {
		if err := printPreview(c.Renderer, preview, format); err != nil {
			return err
		}
		c.Renderer.Println()
	}

	res, err := sess.Run(cmd.Context(), sqlQuery)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("query failed: %s", res.Error)
	}

	if c.Renderer.EffectiveMode() == output.ModeJSON {
		return c.Renderer.JSON(res)
	}
	return printResult(c.Renderer, res, format)
}
