package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/webappsteps/stepsub/pkg/cli/internal/output"
	"github.com/webappsteps/stepsub/pkg/substitute"
)

// maxTemplateLineLen bounds a single template read from stdin.
const maxTemplateLineLen = 1 << 20

var (
	substituteLayers  layerFlags
	onExpressionError string
	maxRewrites       int
	concurrency       int
	substituteJSON    bool
)

var substituteCmd = &cobra.Command{
	Use:     "substitute [TEMPLATE...]",
	Aliases: []string{"sub"},
	Short:   "Substitute markers in templates",
	Long: `Substitute markers in each TEMPLATE and print one result per line.
Without arguments, every line read from stdin is a template.

A template either resolves completely or the command fails; partial
results are never printed.`,
	Example: `  stepsub substitute 'Open "${homepage_url}/home"'
  stepsub sub -e staging -s user=alice 'Hello, ${user}! #{6 * 7}'
  stepsub sub --on-expression-error fail '#{1 +}'
  cat steps.txt | stepsub sub --json`,
	RunE: runSubstitute,
}

func runSubstitute(cmd *cobra.Command, args []string) error {
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	l, err := substituteLayers.build(cmd, engine)
	if err != nil {
		return err
	}

	templates := args
	if len(templates) == 0 {
		if templates, err = readLines(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	results, err := engine.SubstituteAll(cmd.Context(), templates, l.env, l.data())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if substituteJSON {
		return output.JSON(out, results)
	}
	for _, r := range results {
		fmt.Fprintln(out, r)
	}
	return nil
}

// newEngine builds an engine from the configuration and the substitute
// flags.
func newEngine(cmd *cobra.Command) (*substitute.Engine, error) {
	cfg := session.cfg

	if cmd.Flags().Changed("on-expression-error") {
		cfg.ExpressionErrors = onExpressionError
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	rewrites := cfg.MaxRewrites
	if cmd.Flags().Changed("max-rewrites") {
		rewrites = maxRewrites
	}
	workers := cfg.Concurrency
	if cmd.Flags().Changed("concurrency") {
		workers = concurrency
	}

	session.logger.Debug("engine configured",
		slog.String("expressionErrors", policy.String()),
		slog.Int("maxRewrites", rewrites),
		slog.Int("concurrency", workers))

	return substitute.New(
		substitute.WithExpressionErrorPolicy(policy),
		substitute.WithMaxRewrites(rewrites),
		substitute.WithConcurrency(workers),
		substitute.WithLogger(session.logger),
	), nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTemplateLineLen)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	return lines, nil
}

func init() {
	substituteLayers.register(substituteCmd)
	substituteCmd.Flags().StringVar(&onExpressionError, "on-expression-error", "", "What a failed #{...} expression does: passthrough or fail")
	substituteCmd.Flags().IntVar(&maxRewrites, "max-rewrites", 0, "Maximum spans each marker pass may replace (0: unlimited)")
	substituteCmd.Flags().IntVar(&concurrency, "concurrency", 0, "Templates substituted in parallel (0: number of CPUs)")
	substituteCmd.Flags().BoolVar(&substituteJSON, "json", false, "Print results as a JSON array")

	rootCmd.AddCommand(substituteCmd)
}
