package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/usagewatch/usagewatch/internal/config"
	"github.com/usagewatch/usagewatch/pkg/curlparse"
	"github.com/usagewatch/usagewatch/pkg/notify"
	"github.com/usagewatch/usagewatch/pkg/usage"
)

// Version is set at build time via ldflags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "usagewatch",
	Short: "usagewatch - Claude usage polling with threshold notifications",
	Long: `usagewatch polls the Claude usage API on a timer, tracks five-hour and
seven-day utilization, and fires desktop or webhook notifications when
usage crosses 25/50/75/90 percent. The request is taken from a curl
command captured in your browser's devtools.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.usagewatch/config.yaml)")
}

// loadConfig loads the configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger creates a structured logger from config.
func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	return slog.New(handler)
}

// loadDescriptor parses the captured curl command into a request descriptor.
// An empty or unparseable command is fatal at startup.
func loadDescriptor(cfg *config.Config) (usage.RequestDescriptor, error) {
	desc, err := curlparse.ParseFile(cfg.Curl.File)
	if err != nil {
		return desc, fmt.Errorf("load request from %s: %w", cfg.Curl.File, err)
	}
	return desc, nil
}

// initNotifiers creates notification backends from config.
func initNotifiers(cfg *config.Config) []notify.Notifier {
	var notifiers []notify.Notifier

	if cfg.Notify.Desktop.Enabled {
		notifiers = append(notifiers, notify.NewDesktopNotifier())
	}

	if cfg.Notify.Slack.Enabled && cfg.Notify.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(
			cfg.Notify.Slack.WebhookURL,
			cfg.Notify.Slack.Channel,
		))
	}

	if cfg.Notify.Webhook.Enabled && cfg.Notify.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(
			cfg.Notify.Webhook.URL,
			cfg.Notify.Webhook.Secret,
		))
	}

	return notifiers
}
