package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Platforms PlatformsConfig `mapstructure:"platforms"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite
	DSN    string `mapstructure:"dsn"`    // Connection string
}

// PlatformsConfig holds all collection platform configurations
type PlatformsConfig struct {
	Reddit  RedditConfig  `mapstructure:"reddit"`
	X       XConfig       `mapstructure:"x"`
	YouTube YouTubeConfig `mapstructure:"youtube"`
	RSS     RSSConfig     `mapstructure:"rss"`
}

// RedditConfig holds Reddit API settings
type RedditConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	Username     string   `mapstructure:"username"`
	Password     string   `mapstructure:"password"`
	Subreddits   []string `mapstructure:"subreddits"`
}

// Configured reports whether the script-app credentials are all present
func (c RedditConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.Username != "" && c.Password != ""
}

// XConfig holds X API settings
type XConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	BearerToken   string   `mapstructure:"bearer_token"`
	SearchQueries []string `mapstructure:"search_queries"`
}

// Configured reports whether a bearer token is present
func (c XConfig) Configured() bool {
	return c.BearerToken != ""
}

// YouTubeConfig holds YouTube Data API settings
type YouTubeConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	APIKey        string   `mapstructure:"api_key"`
	SearchQueries []string `mapstructure:"search_queries"`
}

// Configured reports whether an API key is present
func (c YouTubeConfig) Configured() bool {
	return c.APIKey != ""
}

// RSSConfig holds RSS feed settings
type RSSConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Feeds   []string `mapstructure:"feeds"`
}

// Configured is always true since feeds carry no credentials
func (c RSSConfig) Configured() bool {
	return true
}

// SchedulerConfig holds scheduler settings
type SchedulerConfig struct {
	CollectionCron string `mapstructure:"collection_cron"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in current directory and configs folder
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		// Also check user's home directory
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".trendr"))
		}
	}

	// Environment variables
	v.SetEnvPrefix("TRENDR")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("database.driver", "TRENDR_DATABASE_DRIVER")
	v.BindEnv("database.dsn", "TRENDR_DATABASE_DSN")
	v.BindEnv("platforms.reddit.client_id", "TRENDR_REDDIT_CLIENT_ID")
	v.BindEnv("platforms.reddit.client_secret", "TRENDR_REDDIT_CLIENT_SECRET")
	v.BindEnv("platforms.reddit.username", "TRENDR_REDDIT_USERNAME")
	v.BindEnv("platforms.reddit.password", "TRENDR_REDDIT_PASSWORD")
	v.BindEnv("platforms.x.bearer_token", "TRENDR_X_BEARER_TOKEN")
	v.BindEnv("platforms.youtube.api_key", "TRENDR_YOUTUBE_API_KEY")
	v.BindEnv("scheduler.collection_cron", "TRENDR_SCHEDULER_COLLECTION_CRON")
	v.BindEnv("logging.level", "TRENDR_LOGGING_LEVEL")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/trendr.db")

	// Platform defaults. Every platform starts disabled so a fresh install
	// validates; enabling one requires its credentials.
	v.SetDefault("platforms.reddit.enabled", false)
	v.SetDefault("platforms.reddit.subreddits", []string{
		"cryptocurrency",
		"wallstreetbets",
		"stocks",
		"sidehustle",
		"Entrepreneur",
	})

	v.SetDefault("platforms.x.enabled", false)
	v.SetDefault("platforms.x.search_queries", []string{
		"crypto trends",
		"side hustle",
	})

	v.SetDefault("platforms.youtube.enabled", false)
	v.SetDefault("platforms.youtube.search_queries", []string{
		"passive income",
		"investing for beginners",
	})

	v.SetDefault("platforms.rss.enabled", false)

	// Scheduler defaults
	v.SetDefault("scheduler.collection_cron", "*/30 * * * *") // Every 30 minutes

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Platforms.Reddit.Enabled && !c.Platforms.Reddit.Configured() {
		return fmt.Errorf("platforms.reddit requires client_id, client_secret, username, and password")
	}
	if c.Platforms.X.Enabled && !c.Platforms.X.Configured() {
		return fmt.Errorf("platforms.x requires bearer_token")
	}
	if c.Platforms.YouTube.Enabled && !c.Platforms.YouTube.Configured() {
		return fmt.Errorf("platforms.youtube requires api_key")
	}
	if c.Platforms.RSS.Enabled && len(c.Platforms.RSS.Feeds) == 0 {
		return fmt.Errorf("platforms.rss requires at least one feed")
	}
	return nil
}
