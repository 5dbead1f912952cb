package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"
)

const secretHeader = "X-Webhook-Secret"

// relayBodyLimit caps how much of the CRM's response is read back.
const relayBodyLimit = 1 << 20

// RelayResult is the CRM webhook's reply, passed through to the original
// caller.
type RelayResult struct {
	Status int
	Body   []byte
}

// WebhookClient forwards lead payloads to the external CRM webhook with the
// shared-secret header. The secret is only ever placed in the header; it
// must not appear in errors or logs.
type WebhookClient struct {
	url    string
	secret string
	http   *http.Client
	log    *logger.Logger
}

// NewWebhookClient creates the relay client. URL and secret may be empty;
// IsConfigured gates every call.
func NewWebhookClient(cfg config.LeadsConfig, log *logger.Logger) *WebhookClient {
	return &WebhookClient{
		url:    cfg.GetLeadsWebhookURL(),
		secret: cfg.GetLeadsWebhookSecret(),
		http:   &http.Client{Timeout: cfg.GetLeadsWebhookTimeout()},
		log:    log,
	}
}

// IsConfigured reports whether both the webhook URL and secret are present.
func (c *WebhookClient) IsConfigured() bool {
	return c.url != "" && c.secret != ""
}

// Forward posts the lead to the webhook and returns its status and body.
func (c *WebhookClient) Forward(ctx context.Context, lead RelayedLead) (*RelayResult, error) {
	body, err := json.Marshal(lead)
	if err != nil {
		return nil, fmt.Errorf("marshal lead payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(secretHeader, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, relayBodyLimit))
	if err != nil {
		return nil, fmt.Errorf("read webhook response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.UpstreamError("crm-webhook", "forward",
			fmt.Errorf("webhook returned %d: %s", resp.StatusCode, truncate(string(data), 200)))
	}

	return &RelayResult{Status: resp.StatusCode, Body: data}, nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
