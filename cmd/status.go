package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusRefresh bool

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-platform server status",
	Long: `Show the current server status of every platform, including the PTS
environment. Results are cached briefly; --refresh bypasses the cache.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusRefresh, "refresh", false, "bypass the status cache")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	status, err := operations.ServerStatus(ctx, statusRefresh)
	if err != nil {
		return err
	}

	fmt.Printf("\nServer status as of %s:\n", status.Timestamp.Format("15:04:05 MST"))
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%-12s %-8s %-18s %s\n", "PLATFORM", "STATUS", "VERSION", "NOTES")

	for _, st := range status.Statuses {
		notes := ""
		if st.LimitedAccess {
			notes = "limited access"
		}
		fmt.Printf("%-12s %-8s %-18s %s\n", st.Platform, st.Status, st.Version, notes)
	}

	if status.AllUp() && !status.LimitedAccess() {
		fmt.Println("\n✓ All platforms up.")
	}

	return nil
}
