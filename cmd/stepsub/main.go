// stepsub CLI - resolves placeholders, expressions and generators in step parameters
package main

import (
	"os"

	"github.com/webappsteps/stepsub/pkg/cli"
)

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version = Version
	cli.Commit = Commit
	cli.BuildDate = BuildDate

	os.Exit(cli.Execute())
}
