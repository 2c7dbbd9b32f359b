// Command qb validates, prunes and edits query builder trees, and serves
// the same operations over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/querybuilder/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
