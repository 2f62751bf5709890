// Package statestore persists which notification thresholds have already
// fired per metric, so restarts do not replay old alerts.
package statestore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/usagewatch/usagewatch/pkg/usage"
)

// MetricState tracks the thresholds already notified for one metric.
type MetricState struct {
	Sent []int `json:"sent"`
}

// State maps metric name to its sent-set. The on-disk form is
// {"five_hour":{"sent":[...]},"seven_day":{"sent":[...]}}.
type State map[string]*MetricState

// NewState returns an empty state with both metrics present.
func NewState() State {
	s := State{}
	for _, m := range usage.Metrics {
		s[m] = &MetricState{Sent: []int{}}
	}
	return s
}

// Sent returns the sent-set for a metric, creating the entry if needed.
func (s State) Sent(metric string) []int {
	if ms, ok := s[metric]; ok && ms != nil {
		return ms.Sent
	}
	s[metric] = &MetricState{Sent: []int{}}
	return s[metric].Sent
}

// SetSent replaces the sent-set for a metric.
func (s State) SetSent(metric string, sent []int) {
	if sent == nil {
		sent = []int{}
	}
	s[metric] = &MetricState{Sent: sent}
}

// Store reads and writes the notification state file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a store backed by the given file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the state file. A missing or corrupt file yields an empty
// state, never an error: the worst case is one duplicate notification.
func (s *Store) Load() State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("read notification state", "path", s.path, "error", err)
		}
		return NewState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("corrupt notification state, starting fresh", "path", s.path, "error", err)
		return NewState()
	}

	for _, m := range usage.Metrics {
		if state[m] == nil {
			state[m] = &MetricState{Sent: []int{}}
		} else if state[m].Sent == nil {
			state[m].Sent = []int{}
		}
	}
	return state
}

// Save writes the state file atomically via a temp file and rename.
func (s *Store) Save(state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal notification state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".notification_state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write notification state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace notification state: %w", err)
	}
	return nil
}
