package notify

import (
	"context"
	"errors"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

// Multi fans one run summary out to every configured channel. Each channel
// is attempted even when an earlier one fails.
type Multi struct {
	notifiers []ports.Notifier
}

var _ ports.Notifier = (*Multi)(nil)

func NewMulti(notifiers ...ports.Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

func (m *Multi) NotifyRun(ctx context.Context, summary domain.RunSummary) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.NotifyRun(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SuccessOnly suppresses notifications for runs with any failed attempt.
type SuccessOnly struct {
	next ports.Notifier
}

var _ ports.Notifier = (*SuccessOnly)(nil)

func NewSuccessOnly(next ports.Notifier) *SuccessOnly {
	return &SuccessOnly{next: next}
}

func (s *SuccessOnly) NotifyRun(ctx context.Context, summary domain.RunSummary) error {
	if !summary.OverallSuccess {
		return nil
	}
	return s.next.NotifyRun(ctx, summary)
}
