package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// WebhookNotifier delivers events as JSON POSTs to an external endpoint.
// Outbound requests are traced via otelhttp so deliveries show up in the
// same trace as the routing operation that emitted them.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

var _ Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier creates a WebhookNotifier posting to url. The per-event
// deadline is enforced by the dispatcher's context, not by the client.
func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type webhookBody struct {
	RecipientID string         `json:"recipient_id"`
	Kind        Kind           `json:"kind"`
	Payload     map[string]any `json:"payload,omitempty"`
	SentAt      time.Time      `json:"sent_at"`
}

func (n *WebhookNotifier) Notify(ctx context.Context, recipientID string, kind Kind, payload map[string]any) error {
	body, err := json.Marshal(webhookBody{
		RecipientID: recipientID,
		Kind:        kind,
		Payload:     payload,
		SentAt:      time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
