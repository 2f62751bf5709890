package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/usagewatch/usagewatch/pkg/usage"
)

// Alert represents one threshold-crossing notification.
type Alert struct {
	Metric    string `json:"metric"`    // "five_hour" or "seven_day"
	Threshold int    `json:"threshold"` // crossed threshold percent
	Value     int    `json:"value"`     // current utilization percent
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Body      string `json:"body"`
}

// NewThresholdAlert builds the standard alert for a crossed threshold.
func NewThresholdAlert(metric string, threshold, value int) Alert {
	return Alert{
		Metric:    metric,
		Threshold: threshold,
		Value:     value,
		Title:     "Claude Usage Alert",
		Subtitle:  MetricLabel(metric),
		Body:      fmt.Sprintf("Usage reached %d%% (threshold: %d%%)", value, threshold),
	}
}

// MetricLabel renders a metric name for humans, e.g. "Five Hour".
func MetricLabel(metric string) string {
	switch metric {
	case usage.MetricFiveHour:
		return "Five Hour"
	case usage.MetricSevenDay:
		return "Seven Day"
	}
	words := strings.Split(metric, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Notifier delivers alerts to one backend.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert. Implementations must be safe for concurrent use.
	Send(ctx context.Context, alert Alert) error
}
