package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, configDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))
}

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, RunModeAll, cfg.RunMode)
	assert.True(t, cfg.Games[domain.GameHonkaiStarRail])
	assert.True(t, cfg.Games[domain.GameGenshinImpact])
	assert.False(t, cfg.Games[domain.GameZenlessZoneZero])
	assert.False(t, cfg.Games[domain.GameHonkaiImpact3rd])

	assert.True(t, cfg.Settings.RunOnStart)
	assert.Equal(t, 3*time.Second, cfg.Settings.DelayBetweenGames)
	assert.Equal(t, 3, cfg.Settings.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Settings.RetryDelay)

	assert.Equal(t, "daily", cfg.Loop.Mode)
	assert.Equal(t, "09:00", cfg.Loop.DailyTime)
	assert.Equal(t, "UTC", cfg.Loop.Timezone)
	assert.Equal(t, 24*time.Hour, cfg.Loop.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Loop.RetryDelay)
	assert.True(t, cfg.Loop.RetryFailed)

	assert.True(t, cfg.Notifications.SuccessOnly)
	assert.Equal(t, 30*time.Second, cfg.Advanced.RequestTimeout)
	assert.Equal(t, 2*time.Second, cfg.Advanced.RateLimitDelay)
	assert.True(t, cfg.Advanced.UserAgentRotation)

	assert.NotEmpty(t, cfg.CredentialsPath)
	assert.True(t, cfg.History.Enabled)
}

func TestLoadReadsConfigFile(t *testing.T) {
	writeConfigFile(t, `run_mode = "all"

[games.zzz]
enabled = true

[settings]
delay_between_games = 1.5
max_retries = 5

[loop]
mode = "interval"
interval_hours = 6.0
max_runs = 3

[notifications]
success_only = false
discord_webhook = "https://discord.example/webhook"

[advanced]
user_agent_rotation = false
`)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.Games[domain.GameZenlessZoneZero])
	assert.Equal(t, 1500*time.Millisecond, cfg.Settings.DelayBetweenGames)
	assert.Equal(t, 5, cfg.Settings.MaxRetries)
	assert.Equal(t, "interval", cfg.Loop.Mode)
	assert.Equal(t, 6*time.Hour, cfg.Loop.Interval)
	assert.Equal(t, 3, cfg.Loop.MaxRuns)
	assert.False(t, cfg.Notifications.SuccessOnly)
	assert.Equal(t, "https://discord.example/webhook", cfg.Notifications.DiscordWebhook)
	assert.False(t, cfg.Advanced.UserAgentRotation)
}

func TestLoadRejectsUnknownGameSection(t *testing.T) {
	writeConfigFile(t, `[games.wuthering]
enabled = true
`)

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownGame)
}

func TestLoadRejectsUnknownRunMode(t *testing.T) {
	writeConfigFile(t, `run_mode = "tot"`)

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownGame)
}

func TestLoadRejectsBadLoopValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown mode",
			content: "[loop]\nmode = \"hourly\"\n",
			wantErr: "loop.mode",
		},
		{
			name:    "malformed daily time",
			content: "[loop]\nmode = \"daily\"\ndaily_time = \"9am\"\n",
			wantErr: "loop.daily_time",
		},
		{
			name:    "unknown timezone",
			content: "[loop]\ntimezone = \"Mars/Olympus\"\n",
			wantErr: "loop.timezone",
		},
		{
			name:    "zero interval",
			content: "[loop]\nmode = \"interval\"\ninterval_hours = 0.0\n",
			wantErr: "loop.interval_hours",
		},
		{
			name:    "negative interval",
			content: "[loop]\nmode = \"interval\"\ninterval_hours = -2.0\n",
			wantErr: "loop.interval_hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfigFile(t, tt.content)

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnabledGamesHonorsRunMode(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	specs, err := cfg.EnabledGames()
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, domain.GameHonkaiStarRail, specs[0].ID)
	assert.Equal(t, domain.GameGenshinImpact, specs[1].ID)

	cfg.RunMode = string(domain.GameZenlessZoneZero)
	specs, err = cfg.EnabledGames()
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, domain.GameZenlessZoneZero, specs[0].ID)
}

func TestEnabledGamesNoneEnabled(t *testing.T) {
	writeConfigFile(t, `[games.hsr]
enabled = false

[games.gi]
enabled = false
`)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	_, err = cfg.EnabledGames()
	require.ErrorIs(t, err, domain.ErrNoGamesEnabled)
}
