package notify

import (
	"context"
	"log/slog"
)

// Dispatcher fans an alert out to every configured backend. Delivery is
// best-effort: a failing backend is logged and never aborts the cycle or the
// other backends.
type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over the given backends.
func NewDispatcher(notifiers []Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, logger: logger}
}

// Dispatch sends the threshold alert through every backend.
func (d *Dispatcher) Dispatch(ctx context.Context, metric string, threshold, value int) {
	alert := NewThresholdAlert(metric, threshold, value)

	d.logger.Warn("usage threshold crossed",
		"metric", metric,
		"threshold", threshold,
		"value", value,
	)

	for _, n := range d.notifiers {
		if err := n.Send(ctx, alert); err != nil {
			d.logger.Error("send notification failed",
				"notifier", n.Name(),
				"metric", metric,
				"error", err,
			)
		}
	}
}
