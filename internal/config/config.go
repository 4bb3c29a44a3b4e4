// Package config loads and validates the hoyocheck configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".hoyocheck"

	credentialsFile = "credentials.toml"
	historyFile     = "history.db"

	// RunModeAll checks in every enabled game. Any other run_mode value
	// must be a known game id and selects that game alone.
	RunModeAll = "all"
)

type Settings struct {
	RunOnStart        bool
	DelayBetweenGames time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	Language          string
}

type Loop struct {
	Enabled     bool
	Mode        string
	Interval    time.Duration
	DailyTime   string
	Timezone    string
	MaxRuns     int
	RetryFailed bool
	RetryDelay  time.Duration
}

type Notifications struct {
	Enabled          bool
	SuccessOnly      bool
	WebhookURL       string
	DiscordWebhook   string
	TelegramBotToken string
	TelegramChatID   string
}

type Advanced struct {
	RequestTimeout    time.Duration
	RateLimitDelay    time.Duration
	UserAgentRotation bool
	ProxyURL          string
}

type History struct {
	Enabled bool
	Path    string
}

type Config struct {
	RunMode         string
	Games           map[domain.GameID]bool
	Settings        Settings
	Loop            Loop
	Notifications   Notifications
	Advanced        Advanced
	History         History
	CredentialsPath string
}

// Load reads ~/.hoyocheck/config.toml through the given viper instance,
// applying defaults for every recognized key. A missing file is not an
// error; an invalid value is.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, configDir))
	setDefaults(cfg, homeDir)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	games := make(map[domain.GameID]bool, len(domain.GameIDs()))
	for key := range cfg.GetStringMap("games") {
		if _, err := domain.Resolve(domain.GameID(key)); err != nil {
			return Config{}, fmt.Errorf("games.%s: %w", key, err)
		}
	}
	for _, id := range domain.GameIDs() {
		games[id] = cfg.GetBool(fmt.Sprintf("games.%s.enabled", id))
	}

	loaded := Config{
		RunMode: cfg.GetString("run_mode"),
		Games:   games,
		Settings: Settings{
			RunOnStart:        cfg.GetBool("settings.run_on_start"),
			DelayBetweenGames: secondsDuration(cfg.GetFloat64("settings.delay_between_games")),
			MaxRetries:        cfg.GetInt("settings.max_retries"),
			RetryDelay:        secondsDuration(cfg.GetFloat64("settings.retry_delay_seconds")),
			Language:          cfg.GetString("settings.language"),
		},
		Loop: Loop{
			Enabled:     cfg.GetBool("loop.enabled"),
			Mode:        cfg.GetString("loop.mode"),
			Interval:    hoursDuration(cfg.GetFloat64("loop.interval_hours")),
			DailyTime:   cfg.GetString("loop.daily_time"),
			Timezone:    cfg.GetString("loop.timezone"),
			MaxRuns:     cfg.GetInt("loop.max_runs"),
			RetryFailed: cfg.GetBool("loop.retry_failed"),
			RetryDelay:  minutesDuration(cfg.GetFloat64("loop.retry_delay_minutes")),
		},
		Notifications: Notifications{
			Enabled:          cfg.GetBool("notifications.enabled"),
			SuccessOnly:      cfg.GetBool("notifications.success_only"),
			WebhookURL:       cfg.GetString("notifications.webhook_url"),
			DiscordWebhook:   cfg.GetString("notifications.discord_webhook"),
			TelegramBotToken: cfg.GetString("notifications.telegram_bot_token"),
			TelegramChatID:   cfg.GetString("notifications.telegram_chat_id"),
		},
		Advanced: Advanced{
			RequestTimeout:    secondsDuration(cfg.GetFloat64("advanced.request_timeout")),
			RateLimitDelay:    secondsDuration(cfg.GetFloat64("advanced.rate_limit_delay")),
			UserAgentRotation: cfg.GetBool("advanced.user_agent_rotation"),
			ProxyURL:          cfg.GetString("advanced.proxy_url"),
		},
		History: History{
			Enabled: cfg.GetBool("history.enabled"),
			Path:    cfg.GetString("history.path"),
		},
		CredentialsPath: cfg.GetString("credentials.path"),
	}

	if err := loaded.validate(); err != nil {
		return Config{}, err
	}

	return loaded, nil
}

func setDefaults(cfg *viper.Viper, homeDir string) {
	cfg.SetDefault("run_mode", RunModeAll)

	cfg.SetDefault("games.hsr.enabled", true)
	cfg.SetDefault("games.gi.enabled", true)
	cfg.SetDefault("games.zzz.enabled", false)
	cfg.SetDefault("games.hi3.enabled", false)

	cfg.SetDefault("settings.run_on_start", true)
	cfg.SetDefault("settings.delay_between_games", 3.0)
	cfg.SetDefault("settings.max_retries", 3)
	cfg.SetDefault("settings.retry_delay_seconds", 5.0)
	cfg.SetDefault("settings.language", domain.DefaultLanguage)

	cfg.SetDefault("loop.enabled", true)
	cfg.SetDefault("loop.mode", "daily")
	cfg.SetDefault("loop.interval_hours", 24.0)
	cfg.SetDefault("loop.daily_time", "09:00")
	cfg.SetDefault("loop.timezone", "UTC")
	cfg.SetDefault("loop.max_runs", 0)
	cfg.SetDefault("loop.retry_failed", true)
	cfg.SetDefault("loop.retry_delay_minutes", 30.0)

	cfg.SetDefault("notifications.enabled", true)
	cfg.SetDefault("notifications.success_only", true)
	cfg.SetDefault("notifications.webhook_url", "")
	cfg.SetDefault("notifications.discord_webhook", "")
	cfg.SetDefault("notifications.telegram_bot_token", "")
	cfg.SetDefault("notifications.telegram_chat_id", "")

	cfg.SetDefault("advanced.request_timeout", 30.0)
	cfg.SetDefault("advanced.rate_limit_delay", 2.0)
	cfg.SetDefault("advanced.user_agent_rotation", true)
	cfg.SetDefault("advanced.proxy_url", "")

	cfg.SetDefault("history.enabled", true)
	cfg.SetDefault("history.path", filepath.Join(homeDir, configDir, historyFile))

	cfg.SetDefault("credentials.path", filepath.Join(homeDir, configDir, credentialsFile))
}

func (c Config) validate() error {
	if c.RunMode != RunModeAll {
		if _, err := domain.Resolve(domain.GameID(c.RunMode)); err != nil {
			return fmt.Errorf("run_mode %q: %w", c.RunMode, err)
		}
	}

	switch c.Loop.Mode {
	case "once", "interval", "daily":
	default:
		return fmt.Errorf("loop.mode %q is not one of once, interval, daily", c.Loop.Mode)
	}

	if c.Loop.Mode == "interval" && c.Loop.Interval <= 0 {
		return fmt.Errorf("loop.interval_hours must be positive, got %s", c.Loop.Interval)
	}

	if c.Loop.Mode == "daily" {
		if _, err := time.Parse("15:04", c.Loop.DailyTime); err != nil {
			return fmt.Errorf("loop.daily_time %q: expected HH:MM", c.Loop.DailyTime)
		}
	}

	if c.Loop.Timezone != "" {
		if _, err := time.LoadLocation(c.Loop.Timezone); err != nil {
			return fmt.Errorf("loop.timezone %q: %w", c.Loop.Timezone, err)
		}
	}

	if c.Settings.MaxRetries < 1 {
		return fmt.Errorf("settings.max_retries must be at least 1, got %d", c.Settings.MaxRetries)
	}

	if c.CredentialsPath == "" {
		return errors.New("credentials.path is empty")
	}

	return nil
}

// EnabledGames resolves run_mode against the per-game enabled flags and
// returns the games to check in, in registry order.
func (c Config) EnabledGames() ([]domain.GameSpec, error) {
	if c.RunMode != RunModeAll {
		spec, err := domain.Resolve(domain.GameID(c.RunMode))
		if err != nil {
			return nil, err
		}
		return []domain.GameSpec{spec}, nil
	}

	var specs []domain.GameSpec
	for _, spec := range domain.AllGames() {
		if c.Games[spec.ID] {
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		return nil, domain.ErrNoGamesEnabled
	}
	return specs, nil
}

func secondsDuration(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

func minutesDuration(v float64) time.Duration {
	return time.Duration(v * float64(time.Minute))
}

func hoursDuration(v float64) time.Duration {
	return time.Duration(v * float64(time.Hour))
}
