package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/rezstats/paladins"
)

var (
	privatePartial bool
	searchPlatform string
	searchFuzzy    bool
)

// playerCmd represents the player command
var playerCmd = &cobra.Command{
	Use:   "player <name|id>",
	Short: "Show a player's profile",
	Long: `Look up a player by name or numeric ID and display the profile,
playtime and ranked standings.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayer,
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search for players by name",
	Long: `Search for players across all platforms. With --platform the dedicated
per-platform exact lookup is used instead; --fuzzy matches name prefixes
rather than whole names.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(searchCmd)

	playerCmd.Flags().BoolVar(&privatePartial, "private-partial", false, "show what little a private profile exposes instead of failing")
	searchCmd.Flags().StringVar(&searchPlatform, "platform", "", "restrict the exact lookup to one platform (pc, steam, ps4, xbox, switch, epic, discord)")
	searchCmd.Flags().BoolVar(&searchFuzzy, "fuzzy", false, "match name prefixes instead of whole names")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	player, err := operations.GetPlayer(ctx, args[0])
	if err != nil {
		var private *paladins.PrivateError
		if privatePartial && errors.As(err, &private) {
			fmt.Println("\nPlayer profile is private.")
			fmt.Printf("  ID: %d\n", private.PlayerID)
			if private.Platform != paladins.PlatformUnknown {
				fmt.Printf("  Platform: %s\n", private.Platform)
			}
			return nil
		}
		return err
	}

	printPlayer(player)
	return nil
}

func printPlayer(p *paladins.Player) {
	fmt.Printf("\n%s (ID: %d)\n", p.DisplayName(), p.ID)
	fmt.Println(strings.Repeat("-", 80))

	if p.Title != "" {
		fmt.Printf("  Title: %s\n", p.Title)
	}
	fmt.Printf("  Level: %d (mastery %d)\n", p.Level, p.MasteryLevel)
	if p.Platform != "" {
		fmt.Printf("  Platform: %s\n", p.Platform)
	}
	if p.Region != "" {
		fmt.Printf("  Region: %s\n", p.Region)
	}
	if !p.Created.IsZero() {
		fmt.Printf("  Created: %s\n", p.Created.Format("2006-01-02"))
	}
	if !p.LastLogin.IsZero() {
		fmt.Printf("  Last login: %s\n", p.LastLogin.Format("2006-01-02"))
	}
	fmt.Printf("  Playtime: %dh\n", p.HoursPlayed)
	fmt.Printf("  Casual: %d wins / %d losses / %d leaves\n", p.Wins, p.Losses, p.Leaves)
	printRanked("Ranked (keyboard)", p.RankedKeyboard)
	printRanked("Ranked (controller)", p.RankedController)
}

func printRanked(label string, stats paladins.RankedStats) {
	if stats.Wins == 0 && stats.Losses == 0 {
		return
	}
	fmt.Printf("  %s: tier %d, %d points, %d wins / %d losses\n",
		label, stats.Tier, stats.Points, stats.Wins, stats.Losses)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	platform := paladins.PlatformUnknown
	if searchPlatform != "" {
		parsed, ok := paladins.ParsePlatform(searchPlatform)
		if !ok {
			return fmt.Errorf("unknown platform '%s'", searchPlatform)
		}
		platform = parsed
	}

	players, err := operations.SearchPlayers(ctx, args[0], platform, !searchFuzzy)
	if err != nil {
		return err
	}

	fmt.Printf("\nFound %d player", len(players))
	if len(players) != 1 {
		fmt.Printf("s")
	}
	fmt.Println(":")
	fmt.Println(strings.Repeat("-", 80))

	for _, p := range players {
		fmt.Printf("• %s [%s] (ID: %d)", p.Name, p.Platform, p.ID)
		if p.Private {
			fmt.Printf(" [PRIVATE]")
		}
		fmt.Println()
	}

	return nil
}

// resolvePlayerID turns a name-or-id argument into a player ID, looking
// the name up when needed.
func resolvePlayerID(ctx context.Context, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		return id, nil
	}

	player, err := operations.GetPlayer(ctx, arg)
	if err != nil {
		return 0, err
	}
	return player.ID, nil
}
