package commands

import (
	"github.com/leapstack-labs/sqlclass/internal/tui"
	"github.com/spf13/cobra"
)

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and practice lessons in a terminal UI",
		Long: `Open a full-screen terminal UI with the topic list, the sample data
and a query editor.

Keys: enter opens a topic, ctrl+r runs the query, ctrl+g regenerates the
data, esc goes back to the topic list and ctrl+c quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			sess := c.Session()
			defer func() { _ = sess.Close() }()

			return tui.Run(cmd.Context(), sess)
		},
	}
}
