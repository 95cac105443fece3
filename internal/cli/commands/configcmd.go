package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapledger/internal/cli/config"
	"github.com/leapstack-labs/leapledger/internal/cli/output"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after defaults, leapledger.yaml, LEAPLEDGER_
environment variables and flags have been applied.`,
		Example: `  leapledger config
  LEAPLEDGER_NOTIFY__OPENER=print leapledger config -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContextWithoutLedger(cmd)
			r := cc.Renderer

			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"config_file": config.GetConfigFileUsed(),
					"config":      cc.Cfg,
				})
			}

			data, err := yaml.Marshal(cc.Cfg)
			if err != nil {
				return fmt.Errorf("failed to encode configuration: %w", err)
			}

			source := config.GetConfigFileUsed()
			if source == "" {
				source = "(defaults)"
			}
			if r.EffectiveMode() == output.ModeMarkdown {
				r.Println(output.FormatHeader(2, "Configuration"))
				r.Println(output.FormatKeyValue("Source", source))
				r.Println("")
				r.Println("```yaml")
				r.Printf("%s", data)
				r.Println("```")
				return nil
			}
			r.Muted("# " + source)
			r.Printf("%s", data)
			return nil
		},
	}
}
