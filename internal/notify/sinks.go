package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mediamod/internal/models"
)

// WebhookSink POSTs notifications as JSON to the platform's notification
// center endpoint.
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a webhook sink for the given URL.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Emit posts the notification to the webhook.
func (s *WebhookSink) Emit(ctx context.Context, n models.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mediamod-notifier/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notification sink returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSink writes notifications to the structured log. Used when no webhook
// is configured so outcomes remain observable in development.
type LogSink struct{}

// NewLogSink creates a log sink.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Emit logs the notification.
func (s *LogSink) Emit(ctx context.Context, n models.Notification) error {
	slog.Info("notification",
		"kind", n.Kind, "item_id", n.ItemID, "owner_id", n.OwnerID, "title", n.Title)
	return nil
}
