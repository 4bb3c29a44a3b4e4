package ports

import (
	"context"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

// CheckinClient performs one logical check-in attempt (no retries). All
// failures are reported through the result's status, never an error.
type CheckinClient interface {
	CheckIn(ctx context.Context, spec domain.GameSpec, cred domain.Credential) domain.AttemptResult
}
