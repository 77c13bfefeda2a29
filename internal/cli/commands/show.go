package commands

import (
	"github.com/leapstack-labs/sqlclass/internal/catalog"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/spf13/cobra"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Format string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show [topic]",
		Short: "Show a topic with fresh sample data",
		Long: `Show a topic: its description, freshly generated sample tables and the
result of its example query.

Without a topic, prints the introduction and the materials overview.`,
		Example: `  sqlclass show
  sqlclass show where
  sqlclass show "inner join" --format md
  sqlclass show group_by -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", output.FormatTable, "Table format: table, json, csv, md")

	return cmd
}

func runShow(cmd *cobra.Command, args []string, opts *ShowOptions) error {
	c := NewCommandContext(cmd)
	format, err := resultFormat(opts.Format)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if c.Renderer.EffectiveMode() == output.ModeJSON {
			return c.Renderer.JSON([]catalog.Guide{catalog.Introduction, catalog.Overview})
		}
		printGuide(c.Renderer, catalog.Introduction)
		printGuide(c.Renderer, catalog.Overview)
		return nil
	}

	sess := c.Session()
	defer func() { _ = sess.Close() }()

	preview, err := sess.Select(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printPreview(c.Renderer, preview, format)
}
