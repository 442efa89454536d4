package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/s0up4200/rezstats/hirez"
	"github.com/s0up4200/rezstats/paladins"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".rezstats"))
		}

		// Check /etc
		v.AddConfigPath("/etc/rezstats/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.url", hirez.PaladinsURL)
	v.SetDefault("api.timeout", "20s")
	v.SetDefault("api.max_tries", 5)
	v.SetDefault("api.session_lifetime", "15m")

	// Cache defaults
	v.SetDefault("cache.champion_ttl", "12h")
	v.SetDefault("cache.status_ttl", "1m")
	v.SetDefault("cache.language", "en")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.URL == "" {
		return fmt.Errorf("api.url is required")
	}

	if cfg.API.DevID == "" || cfg.API.DevID == "your-dev-id-here" {
		return fmt.Errorf("api.dev_id must be set to the ID issued by Hi-Rez")
	}

	if cfg.API.AuthKey == "" || cfg.API.AuthKey == "your-auth-key-here" {
		return fmt.Errorf("api.auth_key must be set to the key issued by Hi-Rez")
	}

	if cfg.API.MaxTries < 1 {
		return fmt.Errorf("api.max_tries must be at least 1")
	}

	if _, ok := paladins.ParseLanguage(cfg.Cache.Language); !ok {
		return fmt.Errorf("invalid cache.language: %s", cfg.Cache.Language)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"trace": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// Language resolves the configured cache language.
func (c *Config) Language() paladins.Language {
	lang, ok := paladins.ParseLanguage(c.Cache.Language)
	if !ok {
		return paladins.LanguageEnglish
	}
	return lang
}
