package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "sqlite", DSN: "./data/trendr.db"},
		Platforms: PlatformsConfig{
			Reddit: RedditConfig{
				Enabled:      true,
				ClientID:     "id",
				ClientSecret: "secret",
				Username:     "user",
				Password:     "pass",
				Subreddits:   []string{"cryptocurrency"},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing dsn", func(c *Config) { c.Database.DSN = "" }},
		{"reddit enabled without credentials", func(c *Config) { c.Platforms.Reddit.Password = "" }},
		{"x enabled without token", func(c *Config) { c.Platforms.X.Enabled = true }},
		{"youtube enabled without key", func(c *Config) { c.Platforms.YouTube.Enabled = true }},
		{"rss enabled without feeds", func(c *Config) { c.Platforms.RSS.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateDisabledPlatformsNeedNoCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Platforms.Reddit.Enabled = false
	cfg.Platforms.Reddit.ClientID = ""

	assert.NoError(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "./data/trendr.db", cfg.Database.DSN)
	assert.Equal(t, "*/30 * * * *", cfg.Scheduler.CollectionCron)
	assert.False(t, cfg.Platforms.Reddit.Enabled)
	assert.NotEmpty(t, cfg.Platforms.Reddit.Subreddits)
	assert.False(t, cfg.Platforms.X.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

// A fresh install with no config file and no env must load and validate,
// so read-only commands work before any platform is set up.
func TestDefaultConfigValidates(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}
