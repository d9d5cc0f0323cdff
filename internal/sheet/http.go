package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSheet talks to a remote sheet service over JSON: GET fetches the
// whole table, PUT replaces it. The service presents the replace as atomic.
type HTTPSheet struct {
	URL    string
	Token  string
	Client *http.Client
}

// NewHTTPSheet creates a client for the sheet endpoint. The token is sent
// as a Bearer credential when non-empty.
func NewHTTPSheet(url, token string) *HTTPSheet {
	return &HTTPSheet{
		URL:    url,
		Token:  token,
		Client: &http.Client{Timeout: 15 * time.Second},
	}
}

type sheetPayload struct {
	Rows [][]string `json:"rows"`
}

// ReadAll fetches every row from the remote sheet.
func (s *HTTPSheet) ReadAll(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating sheet read request: %w", err)
	}
	s.authorize(req)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reading remote sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reading remote sheet: unexpected status %d", resp.StatusCode)
	}

	var payload sheetPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding remote sheet: %w", err)
	}
	return payload.Rows, nil
}

// ReplaceAll overwrites the remote sheet with the given rows.
func (s *HTTPSheet) ReplaceAll(ctx context.Context, rows [][]string) error {
	body, err := json.Marshal(sheetPayload{Rows: rows})
	if err != nil {
		return fmt.Errorf("encoding sheet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating sheet write request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("writing remote sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("writing remote sheet: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPSheet) authorize(req *http.Request) {
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
}
