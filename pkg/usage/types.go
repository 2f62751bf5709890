package usage

import "strconv"

// Metric names for the two tracked usage windows.
const (
	MetricFiveHour = "five_hour"
	MetricSevenDay = "seven_day"
)

// Metrics lists the tracked windows in display order.
var Metrics = []string{MetricFiveHour, MetricSevenDay}

// Unavailable is the sentinel for a utilization value the upstream API
// omitted or mistyped. Rendered as "N/A".
const Unavailable = -1

// RequestDescriptor describes the HTTP request used to poll the usage API.
// It is supplied externally (typically parsed from a captured curl command)
// and never mutated.
type RequestDescriptor struct {
	URL     string
	Method  string
	Headers map[string]string
}

// Snapshot is the normalized result of one successful fetch. Utilization
// values are percentages rounded to the nearest integer, or Unavailable.
type Snapshot struct {
	FiveHour      int    `json:"five_hour"`
	SevenDay      int    `json:"seven_day"`
	FiveHourReset string `json:"five_hour_reset,omitempty"`
	SevenDayReset string `json:"seven_day_reset,omitempty"`
}

// Value returns the utilization for the named metric, or Unavailable for an
// unknown metric name.
func (s *Snapshot) Value(metric string) int {
	switch metric {
	case MetricFiveHour:
		return s.FiveHour
	case MetricSevenDay:
		return s.SevenDay
	default:
		return Unavailable
	}
}

// ResetAt returns the raw resets_at timestamp for the named metric.
func (s *Snapshot) ResetAt(metric string) string {
	switch metric {
	case MetricFiveHour:
		return s.FiveHourReset
	case MetricSevenDay:
		return s.SevenDayReset
	default:
		return ""
	}
}

// FormatValue renders a utilization value for display.
func FormatValue(v int) string {
	if v == Unavailable {
		return "N/A"
	}
	return strconv.Itoa(v)
}
