// Command amasd runs the adaptive mastery & scheduling engine as an
// HTTP daemon.
package main

import (
	"fmt"
	"os"

	"github.com/vocabtutor/amas/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
