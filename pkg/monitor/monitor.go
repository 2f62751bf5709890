// Package monitor runs the fetch -> policy -> dispatch -> persist -> display
// cycle and owns the only synchronization the core needs: a non-blocking
// gate that drops overlapping triggers.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/usagewatch/usagewatch/pkg/notify"
	"github.com/usagewatch/usagewatch/pkg/policy"
	"github.com/usagewatch/usagewatch/pkg/statestore"
	"github.com/usagewatch/usagewatch/pkg/usage"
)

// DefaultPollInterval is the recurring update cadence.
const DefaultPollInterval = 180 * time.Second

// errorSuffix matches a previously appended " (reason)" annotation at the
// end of the status text.
var errorSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// Monitor is the update orchestrator. RunCycle is its only externally
// triggered operation, shared by the recurring timer and manual refreshes.
type Monitor struct {
	fetcher    *usage.Fetcher
	dispatcher *notify.Dispatcher
	store      *statestore.Store
	sinks      []Sink
	interval   time.Duration
	logger     *slog.Logger

	// busy is the concurrency gate: a trigger that finds it set returns
	// immediately so two cycles can never interleave.
	busy atomic.Bool

	// state is only touched inside the gated cycle body.
	state statestore.State

	mu         sync.Mutex
	statusText string
	lastSnap   *usage.Snapshot
	nextUpdate time.Time
}

// New creates a monitor and loads the persisted notification state. A zero
// interval falls back to DefaultPollInterval.
func New(fetcher *usage.Fetcher, dispatcher *notify.Dispatcher, store *statestore.Store, sinks []Sink, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		fetcher:    fetcher,
		dispatcher: dispatcher,
		store:      store,
		sinks:      sinks,
		interval:   interval,
		logger:     logger,
		state:      store.Load(),
		statusText: "Loading...",
	}
}

// Run performs an immediate cycle, then repeats at the poll interval until
// the context is canceled.
func (m *Monitor) Run(ctx context.Context) {
	m.RunCycle(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.RunCycle(ctx)
		}
	}
}

// RunCycle executes one complete update cycle. If another cycle is already
// in flight the trigger is dropped (not queued) and RunCycle returns false.
func (m *Monitor) RunCycle(ctx context.Context) bool {
	if !m.busy.CompareAndSwap(false, true) {
		m.logger.Debug("update already in progress, trigger dropped")
		return false
	}
	defer m.busy.Store(false)

	m.cycle(ctx)
	return true
}

func (m *Monitor) cycle(ctx context.Context) {
	snap, err := m.fetcher.Fetch(ctx)

	var status string
	if err != nil {
		status = m.degradedStatus(err)
		snap = nil
	} else {
		for _, metric := range usage.Metrics {
			m.evaluateMetric(ctx, metric, snap.Value(metric))
		}
		if saveErr := m.store.Save(m.state); saveErr != nil {
			// Not fatal: worst case is one duplicate notification after a
			// restart. State stays in memory and is retried next cycle.
			m.logger.Error("persist notification state", "error", saveErr)
		}
		status = fmt.Sprintf("5h: %s%% | 7d: %s%%",
			usage.FormatValue(snap.FiveHour), usage.FormatValue(snap.SevenDay))
	}

	next := time.Now().Add(m.interval)

	m.mu.Lock()
	m.statusText = status
	m.nextUpdate = next
	if snap != nil {
		m.lastSnap = snap
	}
	m.mu.Unlock()

	for _, sink := range m.sinks {
		sink.Display(status, snap)
	}
}

// evaluateMetric re-arms fallen thresholds, fires newly crossed ones, and
// records everything crossed. Values the upstream could not provide skip
// the whole evaluation: no state mutation, no notification.
func (m *Monitor) evaluateMetric(ctx context.Context, metric string, value int) {
	if value == usage.Unavailable {
		return
	}

	sent := policy.Reset(value, m.state.Sent(metric))

	if d := policy.Decide(value, sent); d != nil {
		for _, threshold := range d.Fire {
			m.dispatcher.Dispatch(ctx, metric, threshold, value)
		}
		sent = append(sent, d.MarkSent...)
	}

	m.state.SetSent(metric, sent)
}

// degradedStatus keeps the last known values visible and swaps in the new
// failure reason, replacing any previous one.
func (m *Monitor) degradedStatus(err error) string {
	label := "Fetch error"
	var fe *usage.FetchError
	if errors.As(err, &fe) {
		label = fe.Label()
	}

	m.mu.Lock()
	base := m.statusText
	m.mu.Unlock()

	base = strings.TrimSpace(errorSuffix.ReplaceAllString(base, ""))
	if base == "" {
		base = "5h: ? | 7d: ?"
	}
	return fmt.Sprintf("%s (%s)", base, label)
}

// StatusText returns the most recently computed status line.
func (m *Monitor) StatusText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusText
}

// Snapshot returns the last successful snapshot, or nil before the first
// successful fetch.
func (m *Monitor) Snapshot() *usage.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSnap
}

// NextUpdateAt returns when the next scheduled cycle is due.
func (m *Monitor) NextUpdateAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nextUpdate
}
