package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

const defaultTelegramAPIBase = "https://api.telegram.org"

// TelegramNotifier delivers the run summary through the Bot API
// sendMessage method.
type TelegramNotifier struct {
	apiBase    string
	botToken   string
	chatID     string
	httpClient *http.Client
}

var _ ports.Notifier = (*TelegramNotifier)(nil)

type TelegramOption func(*TelegramNotifier)

// WithTelegramAPIBase overrides the Bot API origin.
func WithTelegramAPIBase(base string) TelegramOption {
	return func(n *TelegramNotifier) { n.apiBase = base }
}

func NewTelegramNotifier(botToken string, chatID string, httpClient *http.Client, opts ...TelegramOption) *TelegramNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: notifyTimeout}
	}
	n := &TelegramNotifier{
		apiBase:    defaultTelegramAPIBase,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: httpClient,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *TelegramNotifier) NotifyRun(ctx context.Context, summary domain.RunSummary) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": n.chatID,
		"text":    formatSummary(summary),
	})
	if err != nil {
		return fmt.Errorf("encode telegram payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram notification returned status %d", resp.StatusCode)
	}

	return nil
}
