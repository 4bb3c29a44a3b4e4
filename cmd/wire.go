package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/adapters/history"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/adapters/hoyolab"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/adapters/notify"
	summaryrender "github.com/wangyi68/hoyolab-auto-checkin/internal/adapters/render/summary"
	tomlrepo "github.com/wangyi68/hoyolab-auto-checkin/internal/adapters/repo/toml"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/application"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/config"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

type app struct {
	cfg           config.Config
	credentials   *tomlrepo.Repository
	client        ports.CheckinClient
	clock         ports.Clock
	renderSummary func(domain.RunSummary, summaryrender.RenderOptions) (string, error)
}

func wireApp() (*app, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	credentials, err := tomlrepo.NewRepository(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("wire credentials repository: %w", err)
	}

	client, err := hoyolab.NewClient(hoyolab.Options{
		RequestTimeout:    cfg.Advanced.RequestTimeout,
		RateLimitDelay:    cfg.Advanced.RateLimitDelay,
		UserAgentRotation: cfg.Advanced.UserAgentRotation,
		ProxyURL:          cfg.Advanced.ProxyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("wire check-in client: %w", err)
	}

	return &app{
		cfg:           cfg,
		credentials:   credentials,
		client:        client,
		clock:         ports.SystemClock{},
		renderSummary: summaryrender.Render,
	}, nil
}

// buildTargets pairs each enabled game with its stored credential records,
// in registry order. runMode, when non-empty, overrides the configured one.
func (a *app) buildTargets(ctx context.Context, runMode string) ([]application.Target, error) {
	cfg := a.cfg
	if runMode != "" {
		cfg.RunMode = runMode
	}

	specs, err := cfg.EnabledGames()
	if err != nil {
		return nil, err
	}

	credentials, err := a.credentials.List(ctx)
	if err != nil {
		return nil, err
	}

	byGame := make(map[domain.GameID][]domain.Credential, len(credentials))
	for _, cred := range credentials {
		if cred.Language == "" {
			cred.Language = cfg.Settings.Language
		}
		byGame[cred.Game] = append(byGame[cred.Game], cred)
	}

	apiBase := os.Getenv("HOYO_API_BASE_URL")

	var targets []application.Target
	for _, spec := range specs {
		creds := byGame[spec.ID]
		if len(creds) == 0 {
			return nil, fmt.Errorf("game %s: %w", spec.ID, domain.ErrCredentialNotFound)
		}
		if apiBase != "" {
			spec.PrimaryEndpoint = apiBase
			spec.FallbackEndpoints = nil
		}
		for _, cred := range creds {
			targets = append(targets, application.Target{Spec: spec, Credential: cred})
		}
	}

	return targets, nil
}

func (a *app) settings() application.Settings {
	return application.Settings{
		DelayBetweenGames: a.cfg.Settings.DelayBetweenGames,
		MaxRetries:        a.cfg.Settings.MaxRetries,
		RetryDelay:        a.cfg.Settings.RetryDelay,
	}
}

// orchestrator assembles a pass runner with the configured notification
// channels and run history. The returned cleanup closes the history store.
func (a *app) orchestrator(logger *slog.Logger, warnOut io.Writer) (*application.Orchestrator, func()) {
	opts := make([]application.OrchestratorOption, 0, 3)
	if logger != nil {
		opts = append(opts, application.WithLogger(logger))
	}
	if notifier := a.notifier(); notifier != nil {
		opts = append(opts, application.WithNotifier(notifier))
	}

	cleanup := func() {}
	if a.cfg.History.Enabled {
		store, err := history.Open(a.cfg.History.Path)
		if err != nil {
			fmt.Fprintf(warnOut, "run history disabled: %v\n", err)
		} else {
			opts = append(opts, application.WithHistory(store))
			cleanup = func() { _ = store.Close() }
		}
	}

	return application.NewOrchestrator(a.client, a.clock, a.settings(), opts...), cleanup
}

func (a *app) notifier() ports.Notifier {
	n := a.cfg.Notifications
	if !n.Enabled {
		return nil
	}

	var channels []ports.Notifier
	if n.WebhookURL != "" {
		channels = append(channels, notify.NewWebhookNotifier("webhook", n.WebhookURL, nil))
	}
	if n.DiscordWebhook != "" {
		channels = append(channels, notify.NewWebhookNotifier("discord", n.DiscordWebhook, nil))
	}
	if n.TelegramBotToken != "" && n.TelegramChatID != "" {
		channels = append(channels, notify.NewTelegramNotifier(n.TelegramBotToken, n.TelegramChatID, nil))
	}
	if len(channels) == 0 {
		return nil
	}

	var notifier ports.Notifier = notify.NewMulti(channels...)
	if n.SuccessOnly {
		notifier = notify.NewSuccessOnly(notifier)
	}
	return notifier
}
