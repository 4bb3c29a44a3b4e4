package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

func sampleSummary(overall bool) domain.RunSummary {
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	days := 7
	summary := domain.RunSummary{
		StartedAt:  started,
		FinishedAt: started.Add(5 * time.Second),
		Results: []domain.AttemptResult{
			{
				Game:         domain.GameHonkaiStarRail,
				Account:      "100",
				Status:       domain.StatusSuccess,
				Reward:       &domain.Reward{Name: "Stellar Jade", Count: 40},
				SignedInDays: &days,
			},
		},
		OverallSuccess: true,
	}
	if !overall {
		summary.Results = append(summary.Results, domain.AttemptResult{
			Game:    domain.GameGenshinImpact,
			Account: "200",
			Status:  domain.StatusNetworkError,
			Message: "endpoint returned status 502",
		})
		summary.OverallSuccess = false
	}
	return summary
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	text := formatSummary(sampleSummary(false))

	assert.Contains(t, text, "some games failed")
	assert.Contains(t, text, "[hsr] checked in (Stellar Jade x40), day 7")
	assert.Contains(t, text, "[gi] network error: endpoint returned status 502")
}

func TestWebhookNotifierPostsContentPayload(t *testing.T) {
	t.Parallel()

	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier("discord", server.URL, server.Client())
	require.NoError(t, notifier.NotifyRun(context.Background(), sampleSummary(true)))

	assert.Contains(t, payload["content"], "all games succeeded")
}

func TestWebhookNotifierReportsHTTPFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier("webhook", server.URL, server.Client())
	err := notifier.NotifyRun(context.Background(), sampleSummary(true))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestTelegramNotifierSendsChatMessage(t *testing.T) {
	t.Parallel()

	var gotPath string
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("bot-token", "chat-42", server.Client(), WithTelegramAPIBase(server.URL))
	require.NoError(t, notifier.NotifyRun(context.Background(), sampleSummary(true)))

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "chat-42", payload["chat_id"])
	assert.Contains(t, payload["text"], "all games succeeded")
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) NotifyRun(context.Context, domain.RunSummary) error {
	s.calls++
	return s.err
}

func TestMultiNotifiesEveryChannelDespiteFailures(t *testing.T) {
	t.Parallel()

	failing := &stubNotifier{err: assert.AnError}
	working := &stubNotifier{}

	multi := NewMulti(failing, working)
	err := multi.NotifyRun(context.Background(), sampleSummary(true))

	require.Error(t, err)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, working.calls)
}

func TestSuccessOnlySuppressesFailedRuns(t *testing.T) {
	t.Parallel()

	next := &stubNotifier{}
	notifier := NewSuccessOnly(next)

	require.NoError(t, notifier.NotifyRun(context.Background(), sampleSummary(false)))
	assert.Zero(t, next.calls)

	require.NoError(t, notifier.NotifyRun(context.Background(), sampleSummary(true)))
	assert.Equal(t, 1, next.calls)
}
