package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single poll request.
const DefaultTimeout = 10 * time.Second

// Fetcher issues one HTTP request per call against the usage API described
// by its RequestDescriptor. It never retries; the poll interval is the retry
// mechanism.
type Fetcher struct {
	desc   RequestDescriptor
	client *http.Client
	logger *slog.Logger
}

// NewFetcher creates a fetcher for the given request descriptor. A zero
// timeout falls back to DefaultTimeout.
func NewFetcher(desc RequestDescriptor, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		desc:   desc,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch performs a single request and normalizes the response. On failure it
// returns a *FetchError classifying the reason.
func (f *Fetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, f.desc.Method, f.desc.URL, nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrOther, Err: err}
	}
	for k, v := range f.desc.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		fe := classify(err)
		f.logger.Debug("usage fetch failed", "kind", fe.Label(), "error", err)
		return nil, fe
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{Kind: ErrOther, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}

	var payload struct {
		FiveHour window `json:"five_hour"`
		SevenDay window `json:"seven_day"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FetchError{Kind: ErrOther, Err: fmt.Errorf("decode response: %w", err)}
	}

	snap := &Snapshot{
		FiveHour:      payload.FiveHour.utilization(),
		SevenDay:      payload.SevenDay.utilization(),
		FiveHourReset: payload.FiveHour.resetsAt(),
		SevenDayReset: payload.SevenDay.resetsAt(),
	}

	f.logger.Debug("usage fetched",
		"five_hour", FormatValue(snap.FiveHour),
		"seven_day", FormatValue(snap.SevenDay),
	)
	return snap, nil
}

// window tolerates missing or mistyped fields: every field is decoded lazily
// so one bad value never aborts the whole parse.
type window struct {
	Utilization json.RawMessage `json:"utilization"`
	ResetsAt    json.RawMessage `json:"resets_at"`
}

// utilization returns the rounded percentage, or Unavailable when the field
// is absent or not a number. Rounding is half-away-from-zero (math.Round).
func (w window) utilization() int {
	// json.Unmarshal leaves the target untouched for "null", so check for
	// it explicitly rather than reading a phantom zero.
	if len(w.Utilization) == 0 || string(w.Utilization) == "null" {
		return Unavailable
	}
	var v float64
	if err := json.Unmarshal(w.Utilization, &v); err != nil {
		return Unavailable
	}
	return int(math.Round(v))
}

func (w window) resetsAt() string {
	if len(w.ResetsAt) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(w.ResetsAt, &s); err != nil {
		return ""
	}
	return s
}

// classify maps a transport error onto the display taxonomy: deadline and
// net timeouts are Timeout, DNS/connect failures are NoConnection, the rest
// is Other.
func classify(err error) *FetchError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: ErrTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: ErrTimeout, Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &FetchError{Kind: ErrNoConnection, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &FetchError{Kind: ErrNoConnection, Err: err}
	}
	return &FetchError{Kind: ErrOther, Err: err}
}
