package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MikeMC777/ordini-tipografia/internal/apperr"
)

// RelayClient hands notifications to a remote dispatch-relay process.
type RelayClient struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
}

func NewRelayClient(baseURL, apiKey string, timeout time.Duration) *RelayClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RelayClient{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
	}
}

func (c *RelayClient) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode relay request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/functions/send-order-email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: relay: %v", apperr.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	var reply apperr.AppError
	_ = json.NewDecoder(res.Body).Decode(&reply)
	switch res.StatusCode {
	case http.StatusBadRequest:
		return apperr.Validation("relay: %s", reply.Message)
	default:
		return fmt.Errorf("%w: relay status %d: %s", apperr.ErrUpstream, res.StatusCode, reply.Message)
	}
}
