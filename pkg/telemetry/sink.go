package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
)

// HTTPSink posts events to a PostHog-compatible /capture/ endpoint.
type HTTPSink struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

type capturePayload struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  string         `json:"timestamp"`
}

// Capture sends e and returns an error for transport failures and non-2xx
// responses.
func (s *HTTPSink) Capture(ctx context.Context, e Event) error {
	body, err := json.Marshal(capturePayload{
		APIKey:     s.APIKey,
		Event:      e.Name,
		DistinctID: e.DistinctID,
		Properties: e.Properties,
		Timestamp:  e.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("telemetry: marshal: %w", err)
	}

	url := strings.TrimRight(s.Endpoint, "/") + "/capture/"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telemetry: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("telemetry: send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry: capture returned status %d", resp.StatusCode)
	}

	return nil
}

// LogSink writes events to a logger at Info level.
type LogSink struct {
	Logger *slog.Logger
}

// Capture logs e.
func (s LogSink) Capture(_ context.Context, e Event) error {
	log := s.Logger
	if log == nil {
		log = slog.Default()
	}

	log.Info("telemetry", "event", e.Name, "distinct_id", e.DistinctID, "properties", e.Properties)

	return nil
}
