package commands

import (
	"fmt"

	"github.com/leapstack-labs/sqlclass/internal/cli/config"
	"github.com/leapstack-labs/sqlclass/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, SQLCLASS_*
environment variables and flags have been applied. The session secret is
masked.`,
		Example: `  sqlclass config
  SQLCLASS_MAX_ROWS=50 sqlclass config
  sqlclass config -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfig(NewCommandContext(cmd))
		},
	}
}

func runConfig(c *CommandContext) error {
	eff := c.Cfg.Effective()
	r := c.Renderer

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(eff)
	}

	if file := config.GetConfigFileUsed(); file != "" {
		r.Muted("# " + file)
	} else {
		r.Muted("# no config file, using defaults")
	}

	data, err := yaml.Marshal(eff)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	r.Printf("%s", data)
	return nil
}
