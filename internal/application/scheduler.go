package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

type LoopMode string

const (
	LoopOnce     LoopMode = "once"
	LoopInterval LoopMode = "interval"
	LoopDaily    LoopMode = "daily"
)

type SchedulerState string

const (
	StateIdle         SchedulerState = "idle"
	StateWaiting      SchedulerState = "waiting"
	StateRunning      SchedulerState = "running"
	StateRetryPending SchedulerState = "retry_pending"
	StateStopped      SchedulerState = "stopped"
)

// LoopConfig configures the run scheduler.
type LoopConfig struct {
	Mode        LoopMode
	Interval    time.Duration
	DailyTime   string // "HH:MM", in Timezone
	Timezone    string // IANA name, defaults to UTC
	MaxRuns     int    // 0 = unbounded
	RetryFailed bool
	RetryDelay  time.Duration
	RunOnStart  bool
}

// passRunner is the slice of the Orchestrator the scheduler drives.
type passRunner interface {
	Run(ctx context.Context, targets []Target) domain.RunSummary
	RunSubset(ctx context.Context, targets []Target, failed []domain.AttemptKey) domain.RunSummary
}

// Scheduler drives orchestration passes once, on an interval, or at a daily
// fixed time. One pass runs to completion before the next wait is computed;
// cancellation is cooperative and checked before each wait and each run.
type Scheduler struct {
	runner passRunner
	clock  ports.Clock
	cfg    LoopConfig
	loc    *time.Location
	logger *slog.Logger

	dailyHour   int
	dailyMinute int

	state         SchedulerState
	runsCompleted int
	nextFireAt    time.Time
}

func NewScheduler(runner passRunner, clock ports.Clock, cfg LoopConfig, logger *slog.Logger) (*Scheduler, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Scheduler{
		runner: runner,
		clock:  clock,
		cfg:    cfg,
		loc:    time.UTC,
		logger: logger,
		state:  StateIdle,
	}

	switch cfg.Mode {
	case LoopOnce, LoopInterval, LoopDaily:
	default:
		return nil, fmt.Errorf("unsupported loop mode %q", cfg.Mode)
	}

	if cfg.Mode == LoopInterval && cfg.Interval <= 0 {
		return nil, fmt.Errorf("loop interval must be positive, got %s", cfg.Interval)
	}

	if cfg.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("load loop timezone: %w", err)
		}
		s.loc = loc
	}

	if cfg.Mode == LoopDaily {
		parsed, err := time.Parse("15:04", cfg.DailyTime)
		if err != nil {
			return nil, fmt.Errorf("parse daily time %q: %w", cfg.DailyTime, err)
		}
		s.dailyHour, s.dailyMinute = parsed.Hour(), parsed.Minute()
	}

	return s, nil
}

func (s *Scheduler) State() SchedulerState { return s.state }
func (s *Scheduler) RunsCompleted() int    { return s.runsCompleted }
func (s *Scheduler) NextFireAt() time.Time { return s.nextFireAt }

// Run executes the schedule until it is exhausted or ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, targets []Target) error {
	first := true
	for {
		if s.cfg.MaxRuns > 0 && s.runsCompleted >= s.cfg.MaxRuns {
			s.logger.Info("max runs reached", "runs", s.runsCompleted)
			s.state = StateStopped
			return nil
		}

		immediate := first && (s.cfg.RunOnStart || s.cfg.Mode == LoopOnce)
		first = false
		if !immediate {
			s.state = StateWaiting
			s.nextFireAt = s.NextFire(s.clock.Now())
			s.logger.Info("waiting for next run", "next_fire_at", s.nextFireAt)
			if err := s.clock.Sleep(ctx, s.nextFireAt.Sub(s.clock.Now())); err != nil {
				s.state = StateStopped
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			s.state = StateStopped
			return err
		}

		s.state = StateRunning
		summary := s.runner.Run(ctx, targets)
		s.runsCompleted++
		s.logger.Info("run finished",
			"results", len(summary.Results),
			"overall_success", summary.OverallSuccess,
			"runs_completed", s.runsCompleted,
		)

		if s.cfg.Mode == LoopOnce {
			s.state = StateStopped
			return nil
		}

		if !summary.OverallSuccess && s.cfg.RetryFailed {
			failed := summary.Failed()
			s.state = StateRetryPending
			s.logger.Info("retrying failed targets", "count", len(failed), "delay", s.cfg.RetryDelay)
			if err := s.clock.Sleep(ctx, s.cfg.RetryDelay); err != nil {
				s.state = StateStopped
				return err
			}
			if err := ctx.Err(); err != nil {
				s.state = StateStopped
				return err
			}
			s.state = StateRunning
			s.runner.RunSubset(ctx, targets, failed)
		}
	}
}

// NextFire computes the next scheduled fire after now. In daily mode the
// configured time is interpreted in the configured timezone, rolling to the
// next day when already past.
func (s *Scheduler) NextFire(now time.Time) time.Time {
	if s.cfg.Mode == LoopDaily {
		local := now.In(s.loc)
		fire := time.Date(local.Year(), local.Month(), local.Day(), s.dailyHour, s.dailyMinute, 0, 0, s.loc)
		if !fire.After(local) {
			fire = fire.AddDate(0, 0, 1)
		}
		return fire
	}
	return now.Add(s.cfg.Interval)
}
