package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/webappsteps/stepsub/pkg/cli/internal/output"
	"github.com/webappsteps/stepsub/pkg/cli/internal/parse"
	"github.com/webappsteps/stepsub/pkg/config"
	"github.com/webappsteps/stepsub/pkg/datastore"
	"github.com/webappsteps/stepsub/pkg/envprofile"
	"github.com/webappsteps/stepsub/pkg/substitute"
)

// layerFlags are shared by every command that builds variable layers.
type layerFlags struct {
	profiles     []string
	envDir       string
	noProcessEnv bool
	dataFiles    []string
	sets         []string
	saves        []string
}

func (f *layerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.profiles, "env", "e", nil, "Environment profile to layer over env/default (repeatable, comma separated)")
	cmd.Flags().StringVar(&f.envDir, "env-dir", "", "Directory holding environment profiles (default: env)")
	cmd.Flags().BoolVar(&f.noProcessEnv, "no-process-env", false, "Do not add the process environment to the environment layer")
	cmd.Flags().StringArrayVarP(&f.dataFiles, "data", "d", nil, "YAML or JSON file seeding the data layer (repeatable)")
	cmd.Flags().StringArrayVarP(&f.sets, "set", "s", nil, "Set a data value: key=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.saves, "save", nil, "Save a placeholder: name=value, both substituted first (repeatable)")
}

// layers is the resolved input of a substitution run.
type layers struct {
	env   substitute.Vars
	store *datastore.Store
}

func (l *layers) data() substitute.Vars {
	return l.store.Snapshot()
}

// build resolves both layers from configuration and flags. Data precedence,
// lowest first: config values, data files, --set, --save.
func (f *layerFlags) build(cmd *cobra.Command, engine *substitute.Engine) (*layers, error) {
	cfg := session.cfg
	logger := session.logger

	profiles := cfg.Env.Profiles
	if cmd.Flags().Changed("env") {
		profiles = nil
		for _, p := range f.profiles {
			for _, name := range config.SplitList(p) {
				if slices.Contains(profiles, name) {
					output.Warn(cmd.ErrOrStderr(), "environment profile %q given more than once, using it once", name)
					continue
				}
				profiles = append(profiles, name)
			}
		}
	}
	dir := cfg.Env.Dir
	if f.envDir != "" {
		dir = f.envDir
	}

	env, err := envprofile.Load(
		envprofile.WithDir(dir),
		envprofile.WithProfiles(profiles...),
		envprofile.WithProcessEnv(cfg.Env.ProcessEnv && !f.noProcessEnv),
		envprofile.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	store := datastore.New()
	for k, v := range cfg.Data.Values {
		if err := store.Set(datastore.Suite, k, v); err != nil {
			return nil, fmt.Errorf("config data value %q: %w", k, err)
		}
	}

	for _, file := range slices.Concat(cfg.Data.Files, f.dataFiles) {
		if err := store.LoadFile(file); err != nil {
			return nil, err
		}
		logger.Debug("loaded data file", slog.String("path", file))
	}

	sets, err := parse.Assignments(f.sets)
	if err != nil {
		return nil, fmt.Errorf("--set: %w", err)
	}
	assigned := make(map[string]bool, len(sets))
	for _, kv := range sets {
		if prev, ok := store.Get(datastore.Scenario, kv[0]); ok && !assigned[kv[0]] && prev != kv[1] {
			output.Warn(cmd.ErrOrStderr(), "--set %s overrides the data file value %q", kv[0], prev)
		}
		assigned[kv[0]] = true
		if err := store.Set(datastore.Scenario, kv[0], kv[1]); err != nil {
			return nil, err
		}
	}

	saves, err := parse.Assignments(f.saves)
	if err != nil {
		return nil, fmt.Errorf("--save: %w", err)
	}
	for _, kv := range saves {
		if err := store.SavePlaceholder(engine, env, kv[0], kv[1]); err != nil {
			return nil, fmt.Errorf("--save %s: %w", kv[0], err)
		}
	}

	logger.Debug("variable layers ready",
		slog.Int("env", len(env)),
		slog.Int("data", store.Count(datastore.Suite)+store.Count(datastore.Scenario)))

	return &layers{env: env, store: store}, nil
}
