// Command carboncalc parses logistics manifests, resolves shipment
// routes, and calculates Scope 1 CO2e emissions.
package main

import (
	"os"

	"github.com/aureliashabi/A21-Carbon-Calculator/internal/cli"
	"github.com/aureliashabi/A21-Carbon-Calculator/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps the outcome to an exit code.
// Cobra prints the error before Execute returns, so nothing more is
// written here.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
