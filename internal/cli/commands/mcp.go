package commands

import (
	"github.com/leapstack-labs/sqlclass/internal/mcpserver"
	"github.com/spf13/cobra"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the lessons to AI agents over MCP (stdio)",
		Long: `Run a Model Context Protocol server on stdin/stdout.

Tools:
  sqlclass_topics     list the topic catalog
  sqlclass_describe   show a topic's description and sample data
  sqlclass_query      run a query against a fresh dataset for a topic

Every tool call generates its own dataset, so calls never share state.`,
		Example: `  # Claude Desktop / any MCP client
  {"command": "sqlclass", "args": ["mcp", "--seed", "42"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := NewCommandContext(cmd)
			srv := mcpserver.NewServer(version, c.Session, c.Logger)
			c.Logger.Debug("starting mcp server", "engine", c.Cfg.Engine)
			return mcpserver.Serve(cmd.Context(), srv)
		},
	}
}
