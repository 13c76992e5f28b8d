// Package dispatch uploads order PDFs, records who they were sent to and
// hands the send over to the e-mail automation webhook.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
)

var ErrWebhookNotConfigured = errors.New("webhook url not configured")

type Recipient struct {
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         string  `json:"email"`
	Body          string  `json:"body"`
}

type WebhookPayload struct {
	Subject      string      `json:"subject"`
	BodyTemplate string      `json:"body_template"`
	PDFURL       string      `json:"pdf_url"`
	Recipients   []Recipient `json:"recipients"`
}

type WebhookClient struct {
	HTTP *http.Client
	URL  string
}

func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookClient{HTTP: &http.Client{Timeout: timeout}, URL: url}
}

// Send posts the payload. A non-2xx status or a JSON reply carrying an
// "error" field is reported as an upstream failure.
func (c *WebhookClient) Send(ctx context.Context, p WebhookPayload) error {
	if c == nil || c.URL == "" {
		return ErrWebhookNotConfigured
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: webhook: %v", apperr.ErrUpstream, err)
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: webhook status %d: %s", apperr.ErrUpstream, res.StatusCode, bytes.TrimSpace(raw))
	}
	var reply struct {
		Error any `json:"error"`
	}
	if json.Unmarshal(raw, &reply) == nil && reply.Error != nil && reply.Error != false && reply.Error != "" {
		return fmt.Errorf("%w: webhook replied with error: %v", apperr.ErrUpstream, reply.Error)
	}
	return nil
}
