// slc manages a library of project templates and recommends the best
// matching ones for a free-text request.
package main

import (
	"fmt"
	"os"

	"github.com/corey/slc/cmd/slc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", msg)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
