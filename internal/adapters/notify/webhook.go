package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

const notifyTimeout = 10 * time.Second

// WebhookNotifier posts the run summary as a Discord-compatible JSON
// payload: {"content": "..."}.
type WebhookNotifier struct {
	name       string
	url        string
	httpClient *http.Client
}

var _ ports.Notifier = (*WebhookNotifier)(nil)

func NewWebhookNotifier(name string, url string, httpClient *http.Client) *WebhookNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: notifyTimeout}
	}
	return &WebhookNotifier{name: name, url: url, httpClient: httpClient}
}

func (n *WebhookNotifier) NotifyRun(ctx context.Context, summary domain.RunSummary) error {
	payload, err := json.Marshal(map[string]string{"content": formatSummary(summary)})
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", n.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create %s request: %w", n.name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s notification: %w", n.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%s notification returned status %d", n.name, resp.StatusCode)
	}

	return nil
}
