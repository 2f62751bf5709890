package statestore_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usagewatch/usagewatch/pkg/statestore"
	"github.com/usagewatch/usagewatch/pkg/usage"
)

func newTestStore(t *testing.T) (*statestore.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notification_state.json")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return statestore.NewStore(path, logger), path
}

func TestLoad_MissingFile(t *testing.T) {
	store, _ := newTestStore(t)

	state := store.Load()
	assert.Empty(t, state.Sent(usage.MetricFiveHour))
	assert.Empty(t, state.Sent(usage.MetricSevenDay))
}

func TestLoad_CorruptFile(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	state := store.Load()
	assert.Empty(t, state.Sent(usage.MetricFiveHour))
	assert.Empty(t, state.Sent(usage.MetricSevenDay))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	state := statestore.NewState()
	state.SetSent(usage.MetricFiveHour, []int{25, 50})
	state.SetSent(usage.MetricSevenDay, []int{25})
	require.NoError(t, store.Save(state))

	got := store.Load()
	assert.Equal(t, []int{25, 50}, got.Sent(usage.MetricFiveHour))
	assert.Equal(t, []int{25}, got.Sent(usage.MetricSevenDay))
}

func TestSaveLoad_NoMutationKeepsContent(t *testing.T) {
	store, path := newTestStore(t)

	state := statestore.NewState()
	state.SetSent(usage.MetricFiveHour, []int{75})
	require.NoError(t, store.Save(state))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.Save(store.Load()))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestLoad_FillsMissingMetrics(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"five_hour":{"sent":[25]}}`), 0o644))

	state := store.Load()
	assert.Equal(t, []int{25}, state.Sent(usage.MetricFiveHour))
	assert.Empty(t, state.Sent(usage.MetricSevenDay))
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.json")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := statestore.NewStore(path, logger)

	require.NoError(t, store.Save(statestore.NewState()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSave_FileFormat(t *testing.T) {
	store, path := newTestStore(t)

	state := statestore.NewState()
	state.SetSent(usage.MetricFiveHour, []int{25, 50, 75, 90})
	require.NoError(t, store.Save(state))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"five_hour":{"sent":[25,50,75,90]},"seven_day":{"sent":[]}}`, string(data))
}
