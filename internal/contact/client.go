package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrDeliveryNotConfigured is returned when no webhook URL is set.
var ErrDeliveryNotConfigured = errors.New("contact webhook not configured")

// DeliveryError is returned when the webhook answers with a non-2xx status.
type DeliveryError struct {
	Status int
	Body   string
}

func (e *DeliveryError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("webhook returned status %d", e.Status)
	}
	return fmt.Sprintf("webhook returned status %d: %s", e.Status, e.Body)
}

// maxErrorBody caps how much of a failed response is kept.
const maxErrorBody = 512

// Deliverer sends a payload to the message channel. It returns the HTTP
// status of the response, or zero if none was received.
type Deliverer interface {
	Deliver(ctx context.Context, p Payload) (int, error)
}

// Client posts payloads to a Discord-compatible webhook. It makes exactly
// one request per Deliver call.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a Client for the given webhook URL.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Deliver POSTs p as JSON. Any 2xx status is success.
func (c *Client) Deliver(ctx context.Context, p Payload) (int, error) {
	if c.url == "" {
		return 0, ErrDeliveryNotConfigured
	}

	body, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("marshalling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, redactURL(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &DeliveryError{Status: resp.StatusCode, Body: string(text)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// redactURL drops the request URL from transport errors. A webhook URL
// carries its token in the path and must not reach logs or the audit trail.
func redactURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("sending webhook: %s: %w", ue.Op, ue.Err)
	}
	return fmt.Errorf("sending webhook: %w", err)
}
