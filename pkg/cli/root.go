package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/webappsteps/stepsub/pkg/config"
	"github.com/webappsteps/stepsub/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	configFile string
	logLevel   string
	logFormat  string
	logFile    string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// session holds what PersistentPreRunE resolved for the running command.
var session struct {
	cfg     *config.Config
	logger  *slog.Logger
	logSink io.Closer
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stepsub",
	Short: "stepsub resolves placeholders, expressions and generators in step parameters",
	Long: `stepsub substitutes markers in test step parameters.

  ${name}       variable from the environment layer, then the data layer
  #{1 + 2 * 3}  arithmetic or boolean expression
  !{uuid}       random UUID
  !{time}       current UTC time, RFC 3339
  !{time:%Y}    current UTC time, strftime format

The environment layer is built from env/<profile>/*.properties files and the
process environment. The data layer comes from data files and --set values.

Configuration can be provided via flags, STEPSUB_* environment variables, or
a stepsub.yaml file in the working directory.`,
	SilenceUsage:      true,
	SilenceErrors:     true, // We handle errors in Execute()
	PersistentPreRunE: setup,
}

// Execute runs the root command and returns the process exit code.
// This is called by main.main().
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	// Closed here rather than in PersistentPostRun, which cobra skips on error.
	if session.logSink != nil {
		_ = session.logSink.Close()
		session.logSink = nil
	}
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

// setup loads the configuration, applies persistent flags and builds the
// logger.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}

	logCfg := cfg.LoggingConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logCfg.Mirror = f
		session.logSink = f
	}

	session.cfg = cfg
	session.logger = logging.New(logCfg)
	if cfg.Path != "" {
		session.logger.Debug("configuration loaded", slog.String("path", cfg.Path))
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: ./stepsub.yaml, $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON log records to this file")
}
