package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reloadConfigCmd)
	reloadConfigCmd.Flags().StringP("addr", "a", "http://127.0.0.1:8080", "Base URL of the running amasd instance")
}

var reloadConfigCmd = &cobra.Command{
	Use:   "reload-config",
	Short: "Ask a running amasd instance to re-read its config file",
	Long: `Sends an admin request to a running amasd serve instance telling it
to re-read the TOML config file it was started with and atomically swap
in the new snapshot. Equivalent to sending it SIGHUP.`,
	RunE: runReloadConfig,
}

func runReloadConfig(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	resp, err := http.Post(addr+"/v1/admin/reload-config", "application/json", nil)
	if err != nil {
		return fmt.Errorf("reload-config request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reload-config failed: server returned %s", resp.Status)
	}
	fmt.Println("config reloaded")
	return nil
}
