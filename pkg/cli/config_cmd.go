package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webappsteps/stepsub/pkg/cli/internal/output"
	"github.com/webappsteps/stepsub/pkg/config"
)

var (
	configJSON   bool
	configSchema bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Show the configuration after defaults, the config file and STEPSUB_*
environment variables have been applied. With --schema, print the JSON
Schema config files are validated against.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		if configSchema {
			_, err := out.Write(config.Schema())
			return err
		}

		cfg := session.cfg
		if configJSON {
			return output.JSON(out, cfg)
		}
		data, err := config.ToYAML(cfg)
		if err != nil {
			return err
		}
		if cfg.Path != "" {
			fmt.Fprintf(out, "# %s\n", cfg.Path)
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "Output in JSON format (default: YAML)")
	configCmd.Flags().BoolVar(&configSchema, "schema", false, "Print the configuration JSON Schema")

	rootCmd.AddCommand(configCmd)
}
