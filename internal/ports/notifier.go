package ports

import (
	"context"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

// Notifier delivers a finished run summary to a sink. Delivery failures
// must never abort the run that produced the summary.
type Notifier interface {
	NotifyRun(ctx context.Context, summary domain.RunSummary) error
}
