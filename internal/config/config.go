package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all usagewatch configuration.
type Config struct {
	Curl    CurlConfig    `mapstructure:"curl" yaml:"curl"`
	Poll    PollConfig    `mapstructure:"poll" yaml:"poll"`
	State   StateConfig   `mapstructure:"state" yaml:"state"`
	Status  StatusConfig  `mapstructure:"status" yaml:"status"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Notify  NotifyConfig  `mapstructure:"notify" yaml:"notify"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// CurlConfig locates the captured curl command.
type CurlConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// PollConfig defines the update cadence and fetch deadline.
type PollConfig struct {
	Interval     string `mapstructure:"interval" yaml:"interval"`
	FetchTimeout string `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
}

// StateConfig locates the durable notification state file.
type StateConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// StatusConfig defines the optional JSON status file written after every
// cycle. An empty file path disables it.
type StatusConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ServerConfig defines the local status HTTP server.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
}

// NotifyConfig defines the notification backends.
type NotifyConfig struct {
	Desktop DesktopConfig `mapstructure:"desktop" yaml:"desktop"`
	Slack   SlackConfig   `mapstructure:"slack" yaml:"slack"`
	Webhook WebhookConfig `mapstructure:"webhook" yaml:"webhook"`
}

// DesktopConfig defines native desktop notifications.
type DesktopConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// SlackConfig defines Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url"`
	Channel    string `mapstructure:"channel" yaml:"channel"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	URL     string `mapstructure:"url" yaml:"url"`
	Secret  string `mapstructure:"secret" yaml:"secret"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads configuration from file and environment variables.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("find home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".usagewatch"))
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Defaults
	home, _ := os.UserHomeDir()
	v.SetDefault("curl.file", filepath.Join(home, ".usagewatch", "curl.txt"))
	v.SetDefault("poll.interval", "180s")
	v.SetDefault("poll.fetch_timeout", "10s")
	v.SetDefault("state.path", filepath.Join(home, ".usagewatch", "notification_state.json"))
	v.SetDefault("status.file", "")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.listen", "127.0.0.1:7667")
	v.SetDefault("notify.desktop.enabled", true)
	v.SetDefault("notify.slack.channel", "#usage-alerts")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Environment variables
	v.SetEnvPrefix("USAGEWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// PollInterval returns the parsed poll interval, falling back to 180s.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Poll.Interval)
	if err != nil || d <= 0 {
		return 180 * time.Second
	}
	return d
}

// FetchTimeout returns the parsed fetch timeout, falling back to 10s.
func (c *Config) FetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Poll.FetchTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
