package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rezstats/paladins"
)

var (
	watchInterval time.Duration
	watchRecheck  time.Duration
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the server status for changes",
	Long: `Poll the server status and print every change until interrupted.
Polling speeds up while any platform is down or under limited access.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", paladins.DefaultCheckInterval, "time between status checks")
	watchCmd.Flags().DurationVar(&watchRecheck, "recheck", paladins.DefaultRecheckInterval, "check interval while any platform is degraded")
}

func runWatch(cmd *cobra.Command, args []string) error {
	watcher, err := paladins.NewStatusWatcher(operations, printStatusChange, logger,
		paladins.WithCheckInterval(watchInterval),
		paladins.WithRecheckInterval(watchRecheck),
	)
	if err != nil {
		return err
	}

	if err := watcher.Start(context.Background()); err != nil {
		return err
	}
	fmt.Printf("Watching server status every %s. Press Ctrl+C to stop.\n", watchInterval)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	fmt.Println("\nStopping...")
	return watcher.Stop()
}

func printStatusChange(change paladins.StatusChange) {
	fmt.Printf("\n[%s] Server status changed:\n", change.After.Timestamp.Format("15:04:05"))

	for _, st := range change.After.Statuses {
		line := fmt.Sprintf("  %s: %s", st.Platform, st.Status)
		if st.LimitedAccess {
			line += " [LIMITED ACCESS]"
		}
		if before, ok := change.Before.Platform(st.Platform); ok && before.Status != st.Status {
			line += fmt.Sprintf(" (was %s)", before.Status)
		}
		fmt.Println(line)
	}
}
