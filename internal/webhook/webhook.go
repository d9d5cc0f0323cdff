// Package webhook pushes reminder digests to a messaging webhook
// (Slack-compatible JSON payload). Delivery failures are reported to the
// caller; the collection itself is never affected.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender posts messages to a single configured webhook URL.
type Sender struct {
	URL    string
	Client *http.Client
}

// NewSender creates a sender. An empty URL disables sending; check
// Enabled before building a digest.
func NewSender(url string) *Sender {
	return &Sender{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a webhook URL is configured.
func (s *Sender) Enabled() bool {
	return s.URL != ""
}

// Send posts the text to the webhook.
func (s *Sender) Send(ctx context.Context, text string) error {
	if !s.Enabled() {
		return fmt.Errorf("no webhook URL configured")
	}

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sending webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}
