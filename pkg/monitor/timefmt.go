package monitor

import (
	"fmt"
	"time"
)

// FormatRelativeReset renders a resets_at timestamp as a countdown, e.g.
// "Resets in 2h 5m". An unparseable timestamp is returned as-is.
func FormatRelativeReset(resetsAt string, now time.Time) string {
	reset, err := time.Parse(time.RFC3339, resetsAt)
	if err != nil {
		return resetsAt
	}

	diff := reset.Sub(now)
	if diff < 0 {
		return "Resetting soon"
	}

	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60

	switch {
	case hours > 24:
		return fmt.Sprintf("Resets in %dd %dh", hours/24, hours%24)
	case hours > 0:
		return fmt.Sprintf("Resets in %dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("Resets in %dm", minutes)
	}
}

// FormatAbsoluteReset renders a resets_at timestamp as a local clock time,
// e.g. "3:04 PM". Returns "" when the timestamp cannot be parsed.
func FormatAbsoluteReset(resetsAt string, loc *time.Location) string {
	reset, err := time.Parse(time.RFC3339, resetsAt)
	if err != nil {
		return ""
	}
	return reset.In(loc).Format("3:04 PM")
}

// FormatAbsoluteResetWithDay is FormatAbsoluteReset with a weekday prefix,
// e.g. "Mon 3:04 PM".
func FormatAbsoluteResetWithDay(resetsAt string, loc *time.Location) string {
	reset, err := time.Parse(time.RFC3339, resetsAt)
	if err != nil {
		return ""
	}
	return reset.In(loc).Format("Mon 3:04 PM")
}
