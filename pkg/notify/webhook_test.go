package notify_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/usagewatch/usagewatch/pkg/notify"
)

func TestWebhookNotifier_Name(t *testing.T) {
	n := notify.NewWebhookNotifier("http://example.com", "")
	assert.Equal(t, "webhook", n.Name())
}

func TestWebhookNotifier_Send(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notify.NewWebhookNotifier(server.URL, "")
	alert := notify.NewThresholdAlert("five_hour", 75, 80)
	require.NoError(t, n.Send(context.Background(), alert))

	assert.Equal(t, "application/json", gotContentType)

	var payload struct {
		ID    string       `json:"id"`
		Event string       `json:"event"`
		Alert notify.Alert `json:"alert"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "usage_alert", payload.Event)
	assert.NotEmpty(t, payload.ID)
	assert.Equal(t, "five_hour", payload.Alert.Metric)
	assert.Equal(t, 75, payload.Alert.Threshold)
	assert.Equal(t, 80, payload.Alert.Value)
}

func TestWebhookNotifier_Signature(t *testing.T) {
	secret := "topsecret"
	var gotSig string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSig = r.Header.Get("X-Signature-256")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notify.NewWebhookNotifier(server.URL, secret)
	require.NoError(t, n.Send(context.Background(), notify.NewThresholdAlert("seven_day", 25, 30)))

	require.True(t, strings.HasPrefix(gotSig, "sha256="))

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(gotBody)
	assert.Equal(t, "sha256="+hex.EncodeToString(mac.Sum(nil)), gotSig)
}

func TestWebhookNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := notify.NewWebhookNotifier(server.URL, "")
	err := n.Send(context.Background(), notify.NewThresholdAlert("five_hour", 50, 60))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
