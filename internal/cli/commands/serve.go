package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/sqlclass/internal/cli/config"
	"github.com/leapstack-labs/sqlclass/internal/ui"
	"github.com/leapstack-labs/sqlclass/internal/ui/session"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the SQLClass web UI",
		Long: `Start a local web server with the interactive lessons.

Each browser gets its own session and sample data. Sessions idle for
longer than ui.session_ttl are discarded. The web UI uses the ui.*
query limits, which are tighter than the CLI defaults.`,
		Example: `  # Start on the default port
  sqlclass serve

  # Start on a custom port without opening a browser
  sqlclass serve --port 3000 --no-browser

  # Reload sessions when sqlclass.yaml changes
  sqlclass serve --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload when the config file changes")

	return cmd
}

// uiSettings maps the loaded configuration onto web session settings.
func uiSettings(cfg *config.Config) session.Settings {
	return session.Settings{
		Engine:       cfg.Engine,
		Seed:         cfg.Seed,
		ForeignKeys:  cfg.ForeignKeys,
		QueryTimeout: cfg.UI.QueryTimeout,
		MaxRows:      cfg.UI.MaxRows,
	}
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	c := NewCommandContext(cmd)
	cfg := c.Cfg

	// CLI flags override config file
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	configFile := config.GetConfigFileUsed()
	if watch && configFile == "" {
		c.Logger.Warn("--watch needs a config file, not watching")
	}

	flags := cmd.Root().PersistentFlags()
	server := ui.NewServer(ui.Config{
		Settings:   uiSettings(cfg),
		Port:       port,
		Watch:      watch,
		ConfigFile: configFile,
		Reload: func() (session.Settings, error) {
			next, err := config.LoadConfig(configFile, flags)
			if err != nil {
				return session.Settings{}, err
			}
			return uiSettings(next), nil
		},
		SessionSecret: cfg.UI.SessionSecret,
		SessionTTL:    cfg.UI.SessionTTL,
		Logger:        c.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if !opts.NoBrowser {
		go openBrowser(url)
	}

	c.Renderer.Printf("Starting SQLClass on %s\n", url)
	c.Renderer.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
