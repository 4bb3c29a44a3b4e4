package domain

import "time"

type AttemptStatus string

const (
	StatusSuccess          AttemptStatus = "success"
	StatusAlreadyCheckedIn AttemptStatus = "already_checked_in"
	StatusAuthInvalid      AttemptStatus = "auth_invalid"
	StatusRateLimited      AttemptStatus = "rate_limited"
	StatusNetworkError     AttemptStatus = "network_error"
	StatusUnknownError     AttemptStatus = "unknown_error"
)

// OK reports whether the status counts as a successful check-in. An account
// that already claimed today's reward is treated as success.
func (s AttemptStatus) OK() bool {
	return s == StatusSuccess || s == StatusAlreadyCheckedIn
}

// Transient reports whether a retry can plausibly change the outcome.
func (s AttemptStatus) Transient() bool {
	return s == StatusRateLimited || s == StatusNetworkError
}

// Reward is the daily reward attached to a successful sign-in.
type Reward struct {
	Name  string
	Count int
}

// AttemptResult is the final outcome of one (game, account) check-in within
// a run, after all retries. Immutable once produced.
type AttemptResult struct {
	Game         GameID
	Account      string
	Status       AttemptStatus
	Retcode      *int
	Message      string
	SignedInDays *int
	Reward       *Reward
	AttemptCount int
	Elapsed      time.Duration
}
