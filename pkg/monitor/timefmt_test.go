package monitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/usagewatch/usagewatch/pkg/monitor"
)

func TestFormatRelativeReset(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		resetsAt string
		want     string
	}{
		{"minutes only", "2026-08-30T12:45:00Z", "Resets in 45m"},
		{"hours and minutes", "2026-08-30T14:05:00Z", "Resets in 2h 5m"},
		{"days and hours", "2026-09-02T16:00:00Z", "Resets in 3d 4h"},
		{"already past", "2026-08-30T11:00:00Z", "Resetting soon"},
		{"unparseable passes through", "soonish", "soonish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monitor.FormatRelativeReset(tt.resetsAt, now))
		})
	}
}

func TestFormatAbsoluteReset(t *testing.T) {
	assert.Equal(t, "3:04 PM", monitor.FormatAbsoluteReset("2026-08-30T15:04:00Z", time.UTC))
	assert.Equal(t, "9:30 AM", monitor.FormatAbsoluteReset("2026-08-30T09:30:00Z", time.UTC))
	assert.Empty(t, monitor.FormatAbsoluteReset("garbage", time.UTC))
}

func TestFormatAbsoluteResetWithDay(t *testing.T) {
	assert.Equal(t, "Sun 3:04 PM", monitor.FormatAbsoluteResetWithDay("2026-08-30T15:04:00Z", time.UTC))
	assert.Empty(t, monitor.FormatAbsoluteResetWithDay("garbage", time.UTC))
}
