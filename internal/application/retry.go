package application

import (
	"context"
	"time"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

// executeWithRetry drives one logical operation through bounded retries.
// Only transient outcomes (network_error, rate_limited) are retried, with
// linear backoff baseDelay * attempt. Terminal outcomes return immediately:
// they cannot self-resolve. On exhaustion the last result is returned with
// its original classification. AttemptCount and Elapsed are stamped on the
// returned result; Elapsed spans all attempts including backoff waits.
func executeWithRetry(
	ctx context.Context,
	clock ports.Clock,
	maxAttempts int,
	baseDelay time.Duration,
	op func(context.Context) domain.AttemptResult,
) domain.AttemptResult {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	start := clock.Now()
	var result domain.AttemptResult
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result = op(ctx)
		result.AttemptCount = attempt

		if !result.Status.Transient() || attempt == maxAttempts {
			break
		}

		if err := clock.Sleep(ctx, baseDelay*time.Duration(attempt)); err != nil {
			break
		}
	}

	result.Elapsed = clock.Now().Sub(start)
	return result
}
