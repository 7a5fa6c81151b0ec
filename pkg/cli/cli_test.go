package cli_test

import (
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/webappsteps/stepsub/pkg/cli"
)

// TestMain lets scripts run stepsub in-process through the test binary.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"stepsub": cli.Execute,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata",
		Setup: func(env *testscript.Env) error {
			for _, name := range []string{
				"STEPSUB_CONFIG",
				"STEPSUB_EXPRESSION_ERRORS",
				"STEPSUB_MAX_REWRITES",
				"STEPSUB_CONCURRENCY",
				"STEPSUB_ENV",
				"STEPSUB_ENV_DIR",
				"STEPSUB_LOG_LEVEL",
				"STEPSUB_LOG_FORMAT",
				"STEPSUB_LOG_FILE",
			} {
				env.Setenv(name, "")
			}
			return nil
		},
	})
}
