package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/sqlclass/internal/cli/config"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/leapstack-labs/sqlclass/internal/dataset"
	"github.com/leapstack-labs/sqlclass/internal/lesson"
	"github.com/leapstack-labs/sqlclass/internal/sandbox"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Generator returns a dataset generator configured from Cfg.
func (c *CommandContext) Generator() *dataset.Generator {
	opts := []dataset.Option{
		dataset.WithEngine(c.Cfg.Engine),
		dataset.WithForeignKeys(c.Cfg.ForeignKeys),
		dataset.WithLogger(c.Logger),
	}
	if c.Cfg.Seed != 0 {
		opts = append(opts, dataset.WithSeed(c.Cfg.Seed))
	}
	return dataset.NewGenerator(opts...)
}

// Sandbox returns a sandbox using the CLI limits.
func (c *CommandContext) Sandbox() *sandbox.Sandbox {
	return sandbox.New(sandbox.Options{
		Timeout: c.Cfg.QueryTimeout,
		MaxRows: c.Cfg.MaxRows,
		Logger:  c.Logger,
	})
}

// Session returns a new idle lesson session. The caller must Close it.
func (c *CommandContext) Session() *lesson.Session {
	return lesson.New(c.Generator(), c.Sandbox(), lesson.WithLogger(c.Logger))
}

// getConfig returns the current configuration, or defaults when no
// config has been loaded (commands run outside the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// stdinIsPiped reports whether r is a non-terminal input worth reading.
func stdinIsPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	return !term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
