package application

import (
	"context"
	"time"
)

// fakeClock advances its own time on Sleep so scheduler and retry tests run
// without real timers.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration

	// cancelAfter, when > 0, makes Sleep return ctx.Err() once that many
	// sleeps have completed.
	cancelAfter int
	cancel      context.CancelFunc
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		c.now = c.now.Add(d)
	}
	c.sleeps = append(c.sleeps, d)

	if c.cancelAfter > 0 && len(c.sleeps) >= c.cancelAfter && c.cancel != nil {
		c.cancel()
		return context.Canceled
	}
	return nil
}
