package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// webhookSender POSTs the message as JSON to plain http(s) destinations.
type webhookSender struct {
	client *http.Client
}

type webhookPayload struct {
	Level int    `json:"level"`
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

func (w *webhookSender) send(ctx context.Context, msg Message, target *url.URL) error {
	body, err := json.Marshal(webhookPayload{
		Level: int(msg.Level),
		Title: msg.Title,
		Body:  msg.Body,
	})
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
