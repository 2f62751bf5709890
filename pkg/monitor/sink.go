package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/usagewatch/usagewatch/pkg/usage"
)

// Sink receives the computed status after every cycle, success or failure.
// UI shells (menu bar, tray, overlay) implement this; the snapshot is nil
// when the cycle's fetch failed.
type Sink interface {
	Display(status string, snap *usage.Snapshot)
}

// LogSink writes each update to the logger. Used for foreground runs.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a sink that logs status updates.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Display(status string, snap *usage.Snapshot) {
	if snap == nil {
		s.logger.Info("status updated", "status", status)
		return
	}
	s.logger.Info("status updated",
		"status", status,
		"five_hour_reset", FormatRelativeReset(snap.FiveHourReset, time.Now()),
		"seven_day_reset", FormatRelativeReset(snap.SevenDayReset, time.Now()),
	)
}

// StatusFileSink writes a JSON status document for external shells (xbar,
// waybar, polybar scripts) to read. The file is replaced atomically.
type StatusFileSink struct {
	path   string
	logger *slog.Logger
}

// NewStatusFileSink creates a sink writing to the given path.
func NewStatusFileSink(path string, logger *slog.Logger) *StatusFileSink {
	return &StatusFileSink{path: path, logger: logger}
}

type statusDoc struct {
	Status         string          `json:"status"`
	Snapshot       *usage.Snapshot `json:"snapshot,omitempty"`
	FiveHourResets string          `json:"five_hour_resets,omitempty"`
	SevenDayResets string          `json:"seven_day_resets,omitempty"`
	UpdatedAt      string          `json:"updated_at"`
}

func (s *StatusFileSink) Display(status string, snap *usage.Snapshot) {
	doc := statusDoc{
		Status:    status,
		Snapshot:  snap,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if snap != nil {
		doc.FiveHourResets = FormatRelativeReset(snap.FiveHourReset, time.Now())
		doc.SevenDayResets = FormatRelativeReset(snap.SevenDayReset, time.Now())
	}

	if err := s.write(doc); err != nil {
		s.logger.Error("write status file", "path", s.path, "error", err)
	}
}

func (s *StatusFileSink) write(doc statusDoc) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".status-*")
	if err != nil {
		return fmt.Errorf("create temp status file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write status: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp status file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace status file: %w", err)
	}
	return nil
}
