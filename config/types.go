package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Filters FilterConfig  `mapstructure:"filters"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the Hi-Rez API credentials and client tuning
type APIConfig struct {
	URL               string        `mapstructure:"url"`
	DevID             string        `mapstructure:"dev_id"`
	AuthKey           string        `mapstructure:"auth_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxTries          int           `mapstructure:"max_tries"`
	SessionLifetime   time.Duration `mapstructure:"session_lifetime"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// CacheConfig tunes the champion metadata and server status caches
type CacheConfig struct {
	ChampionTTL time.Duration `mapstructure:"champion_ttl"`
	StatusTTL   time.Duration `mapstructure:"status_ttl"`
	Language    string        `mapstructure:"language"`
}

// FilterConfig contains named filter expressions for match history
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
