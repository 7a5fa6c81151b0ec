package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webappsteps/stepsub/pkg/cli/internal/output"
	"github.com/webappsteps/stepsub/pkg/substitute"
)

// Layer names accepted by --layer.
const (
	layerEnv  = "env"
	layerData = "data"
	layerAll  = "all"
)

var (
	varsLayers layerFlags
	varsLayer  string
	varsJSON   bool
)

// VarsOutput represents JSON output format for --layer all
type VarsOutput struct {
	Env  substitute.Vars `json:"env"`
	Data substitute.Vars `json:"data"`
}

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Show the resolved variable layers",
	Long: `Show the variables substitution would use, sorted by name.

With --layer all, env values are listed before data values; env wins when
a name appears in both.`,
	Example: `  stepsub vars --layer env -e staging --no-process-env
  stepsub vars --layer data -d data.yaml --json`,
	Args: cobra.NoArgs,
	RunE: runVars,
}

func runVars(cmd *cobra.Command, _ []string) error {
	switch varsLayer {
	case layerEnv, layerData, layerAll:
	default:
		return fmt.Errorf("invalid --layer %q (valid: env, data, all)", varsLayer)
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}
	l, err := varsLayers.build(cmd, engine)
	if err != nil {
		return err
	}
	data := l.data()

	out := cmd.OutOrStdout()
	switch varsLayer {
	case layerEnv:
		if varsJSON {
			return output.JSON(out, l.env)
		}
		printVars(cmd, l.env)
	case layerData:
		if varsJSON {
			return output.JSON(out, data)
		}
		printVars(cmd, data)
	default:
		if varsJSON {
			return output.JSON(out, VarsOutput{Env: l.env, Data: data})
		}
		w := output.Table(out)
		fmt.Fprintln(w, "LAYER\tNAME\tVALUE")
		for _, k := range l.env.Keys() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", layerEnv, k, l.env[k])
		}
		for _, k := range data.Keys() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", layerData, k, data[k])
		}
		return w.Flush()
	}
	return nil
}

func printVars(cmd *cobra.Command, vars substitute.Vars) {
	for _, k := range vars.Keys() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, vars[k])
	}
}

func init() {
	varsLayers.register(varsCmd)
	varsCmd.Flags().StringVar(&varsLayer, "layer", layerAll, "Layer to show: env, data or all")
	varsCmd.Flags().BoolVar(&varsJSON, "json", false, "Output in JSON format")

	rootCmd.AddCommand(varsCmd)
}
