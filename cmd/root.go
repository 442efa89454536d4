package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/rezstats/config"
	"github.com/s0up4200/rezstats/filter"
	"github.com/s0up4200/rezstats/hirez"
	"github.com/s0up4200/rezstats/paladins"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	client     *hirez.Client
	operations *paladins.Operations
	filters    *filter.Registry
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rezstats",
	Short: "A CLI for Paladins player and match statistics",
	Long: `rezstats looks up players, match history, champions and server status
from the Hi-Rez Paladins API. Expensive lookups like champion metadata
and server status are cached between calls.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion wires the build-time version info into the root command.
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create API client
	opts := []hirez.Option{
		hirez.WithTimeout(cfg.API.Timeout),
		hirez.WithMaxTries(cfg.API.MaxTries),
		hirez.WithSessionLifetime(cfg.API.SessionLifetime),
	}
	if cfg.API.RequestsPerSecond > 0 {
		opts = append(opts, hirez.WithRateLimit(cfg.API.RequestsPerSecond, 1))
	}

	client, err = hirez.New(cfg.API.URL, cfg.API.DevID, cfg.API.AuthKey, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	operations = paladins.NewOperations(client, logger,
		paladins.WithDefaultLanguage(cfg.Language()),
		paladins.WithChampionTTL(cfg.Cache.ChampionTTL),
		paladins.WithStatusTTL(cfg.Cache.StatusTTL),
	)

	// Compile named filters from config
	filters = filter.NewRegistry()
	if err := filters.RegisterAll(cfg.Filters); err != nil {
		return fmt.Errorf("invalid filter in config: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test API connectivity and session creation",
	Long:  `Ping the API, create and validate a session, and probe the server status.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Printf("Testing connection to %s...\n", cfg.API.URL)

	if err := operations.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Println("✓ Ping successful!")

	msg, err := operations.TestSession(ctx)
	if err != nil {
		return fmt.Errorf("session test failed: %w", err)
	}
	fmt.Printf("✓ Session valid: %s\n", strings.TrimSpace(msg))

	status, err := operations.ServerStatus(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to get server status: %w", err)
	}

	fmt.Printf("\nServer Status:\n")
	for _, st := range status.Statuses {
		marker := "✓"
		if !st.Up() {
			marker = "✗"
		}
		fmt.Printf("  %s %s: %s", marker, st.Platform, st.Status)
		if st.Version != "" {
			fmt.Printf(" (v%s)", st.Version)
		}
		if st.LimitedAccess {
			fmt.Printf(" [LIMITED ACCESS]")
		}
		fmt.Println()
	}

	if version, err := operations.PatchVersion(ctx); err == nil && version != "" {
		fmt.Printf("\nPatch version: %s\n", version)
	}

	return nil
}
