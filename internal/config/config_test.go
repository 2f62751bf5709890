package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usagewatch/usagewatch/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "180s", cfg.Poll.Interval)
	assert.Equal(t, "10s", cfg.Poll.FetchTimeout)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, "127.0.0.1:7667", cfg.Server.Listen)
	assert.True(t, cfg.Notify.Desktop.Enabled)
	assert.False(t, cfg.Notify.Slack.Enabled)
	assert.Equal(t, "#usage-alerts", cfg.Notify.Slack.Channel)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Contains(t, cfg.Curl.File, "curl.txt")
	assert.Contains(t, cfg.State.Path, "notification_state.json")
	assert.Empty(t, cfg.Status.File)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	data := []byte(`
curl:
  file: /tmp/my-curl.txt
poll:
  interval: 60s
server:
  enabled: false
notify:
  desktop:
    enabled: false
  slack:
    enabled: true
    webhook_url: https://hooks.slack.com/services/x
logging:
  level: debug
`)
	err := os.WriteFile(cfgPath, data, 0o644)
	require.NoError(t, err)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/my-curl.txt", cfg.Curl.File)
	assert.Equal(t, "60s", cfg.Poll.Interval)
	assert.False(t, cfg.Server.Enabled)
	assert.False(t, cfg.Notify.Desktop.Enabled)
	assert.True(t, cfg.Notify.Slack.Enabled)
	assert.Equal(t, "https://hooks.slack.com/services/x", cfg.Notify.Slack.WebhookURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("USAGEWATCH_LOGGING_LEVEL", "error")
	t.Setenv("USAGEWATCH_POLL_INTERVAL", "30s")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "30s", cfg.Poll.Interval)
}

func TestPollInterval_Parsing(t *testing.T) {
	cfg := &config.Config{}
	cfg.Poll.Interval = "2m"
	assert.Equal(t, 2*time.Minute, cfg.PollInterval())

	cfg.Poll.Interval = "garbage"
	assert.Equal(t, 180*time.Second, cfg.PollInterval())

	cfg.Poll.Interval = "-5s"
	assert.Equal(t, 180*time.Second, cfg.PollInterval())
}

func TestFetchTimeout_Parsing(t *testing.T) {
	cfg := &config.Config{}
	cfg.Poll.FetchTimeout = "3s"
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout())

	cfg.Poll.FetchTimeout = ""
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout())
}
