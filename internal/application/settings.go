package application

import (
	"time"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

// Target is one (game, account) pair scheduled for a check-in call.
type Target struct {
	Spec       domain.GameSpec
	Credential domain.Credential
}

// Key identifies the target within a run summary.
func (t Target) Key() domain.AttemptKey {
	return domain.AttemptKey{Game: t.Spec.ID, Account: t.Credential.LtUID}
}

// Settings are the per-run knobs of the orchestrator.
type Settings struct {
	// DelayBetweenGames is the courtesy delay between successive
	// (game, account) calls. Not applied before the first call.
	DelayBetweenGames time.Duration
	// MaxRetries is the total attempt budget per target.
	MaxRetries int
	// RetryDelay is the base backoff delay; attempt n waits n times this.
	RetryDelay time.Duration
}

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 5 * time.Second
)

func (s Settings) withDefaults() Settings {
	if s.MaxRetries <= 0 {
		s.MaxRetries = defaultMaxRetries
	}
	if s.RetryDelay <= 0 {
		s.RetryDelay = defaultRetryDelay
	}
	return s
}
