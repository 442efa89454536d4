package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rezstats/filter"
	"github.com/s0up4200/rezstats/paladins"
)

var (
	historyFilter string
	historyPreset string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <name|id>",
	Short: "Show a player's recent matches",
	Long: `Show the recent match history of a player, optionally narrowed with a
filter expression like 'Won and Kills > 10' or a named filter from the
config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyFilter, "filter", "f", "", "filter expression")
	historyCmd.Flags().StringVarP(&historyPreset, "preset", "p", "", "use a named filter from config")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	playerID, err := resolvePlayerID(ctx, args[0])
	if err != nil {
		return err
	}

	matches, err := operations.GetPlayerHistory(ctx, playerID)
	if err != nil {
		return err
	}

	matches, err = filterHistory(matches)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	fmt.Printf("\nFound %d match", len(matches))
	if len(matches) != 1 {
		fmt.Printf("es")
	}
	fmt.Println(":")
	fmt.Println(strings.Repeat("-", 80))

	for _, m := range matches {
		outcome := "L"
		if m.Won() {
			outcome = "W"
		}
		fmt.Printf("• [%s] %s %d/%d/%d on %s (%s, %s)\n",
			outcome, m.Champion, m.Kills, m.Deaths, m.Assists,
			paladins.CleanMapName(m.MapName), m.Queue(), m.Time.Format("2006-01-02 15:04"))
	}

	return nil
}

// filterHistory applies the --filter expression or the named config filter
func filterHistory(matches []paladins.HistoryMatch) ([]paladins.HistoryMatch, error) {
	if historyFilter != "" {
		compiled, err := filter.NewExprCompiler().Compile(historyFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return filter.Apply(compiled, matches)
	}

	if historyPreset != "" {
		return filters.ApplyNamed(historyPreset, matches)
	}

	return matches, nil
}
