// Package cli implements the amasd daemon's cobra command tree: serve,
// reload-config, stats.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "amasd",
	Short: "Adaptive mastery & scheduling engine daemon",
	Long: `amasd runs the adaptive mastery & scheduling engine as an HTTP
daemon: a per-user online controller that turns raw answer events into
the next study strategy, a spaced-repetition schedule, and a reward
signal, persisting each user's bandit and memory state to SQLite.`,
}

// Execute runs the root command, parsing os.Args.
func Execute() error {
	return rootCmd.Execute()
}
