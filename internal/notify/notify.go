// Package notify posts crossing events to an external webhook, over a
// context-scoped http.Client with a request-id header and a typed
// error for non-2xx responses.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CrossingEvent is the payload posted for each completed traversal.
type CrossingEvent struct {
	TrackID   int       `json:"track_id"`
	Direction string    `json:"direction"` // "in" or "out"
	InCount   int32     `json:"in_count"`
	OutCount  int32     `json:"out_count"`
	Timestamp time.Time `json:"timestamp"`
}

// WebhookError is returned when the remote endpoint rejects an event.
type WebhookError struct {
	StatusCode int
	Body       string
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("webhook rejected event (status %d): %s", e.StatusCode, e.Body)
}

// Client posts CrossingEvents to a configured webhook URL.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	serviceName string
}

// NewClient builds a notify Client. baseURL may be empty, in which case
// Post is a no-op — webhook notification is optional.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		serviceName: "counting-pipeline",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Post sends one crossing event. It is a no-op (nil error) when the
// client was built with an empty base URL.
func (c *Client) Post(ctx context.Context, event CrossingEvent) error {
	if c.baseURL == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal crossing event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Name", c.serviceName)
	req.Header.Set("X-Request-ID", fmt.Sprintf("crossing-%d", time.Now().UnixNano()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post crossing event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &WebhookError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return nil
}
