package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPPublisher posts commands to the bot's local Farmware API.
type HTTPPublisher struct {
	client *http.Client
	url    string
	token  string
}

// NewHTTPPublisher creates a publisher for the API rooted at apiURL
// (including any version prefix and a trailing slash).
func NewHTTPPublisher(apiURL, token string) *HTTPPublisher {
	return &HTTPPublisher{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    apiURL + "celery_script",
		token:  token,
	}
}

// Send posts the command as JSON.
func (p *HTTPPublisher) Send(ctx context.Context, cmd Command) error {
	payload, err := FormatPayload(cmd)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+p.token)
	req.Header.Set("content-type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post celery_script: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post celery_script: unexpected status %s", resp.Status)
	}
	return nil
}

// Close releases idle connections.
func (p *HTTPPublisher) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
