package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("addr", "a", "http://127.0.0.1:8080", "Base URL of the running amasd instance")
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the cache stats of a running amasd instance",
	Long:  `Fetches the in-memory cached-user count from a running amasd serve instance.`,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")

	resp, err := http.Get(addr + "/v1/cache/stats")
	if err != nil {
		return fmt.Errorf("stats request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats request failed: server returned %s", resp.Status)
	}

	var stats struct {
		UserCount int `json:"UserCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("decode stats response: %w", err)
	}

	fmt.Printf("cached users: %d\n", stats.UserCount)
	return nil
}
