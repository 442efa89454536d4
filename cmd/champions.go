package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rezstats/paladins"
)

var (
	championsLang    string
	championsRefresh bool
)

// championsCmd represents the champions command
var championsCmd = &cobra.Command{
	Use:   "champions",
	Short: "Show champion and item metadata",
	Long: `Show the champion roster with roles, free rotation and item counts.
Metadata is cached for hours; --refresh bypasses the cache.`,
	RunE: runChampions,
}

func init() {
	rootCmd.AddCommand(championsCmd)

	championsCmd.Flags().StringVar(&championsLang, "lang", "", "language for champion names (default from config)")
	championsCmd.Flags().BoolVar(&championsRefresh, "refresh", false, "bypass the metadata cache")
}

func runChampions(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	lang := operations.DefaultLanguage()
	if championsLang != "" {
		parsed, ok := paladins.ParseLanguage(championsLang)
		if !ok {
			return fmt.Errorf("unknown language '%s'", championsLang)
		}
		lang = parsed
	}

	info, err := operations.ChampionInfo(ctx, lang, championsRefresh)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d champions, %d items (%s):\n", len(info.Champions), len(info.Devices), lang)
	fmt.Println(strings.Repeat("-", 80))

	for i := range info.Champions {
		c := &info.Champions[i]
		fmt.Printf("• %-16s %s", c.Name, c.Roles)
		if c.InFreeRotation() {
			fmt.Printf(" [FREE]")
		}
		if c.IsLatest() {
			fmt.Printf(" [NEW]")
		}
		fmt.Println()
	}

	return nil
}
