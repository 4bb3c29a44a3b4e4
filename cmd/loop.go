package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/application"
)

func newLoopCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "loop",
		Short: "Run check-ins on the configured schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoop(cmd, app)
		},
	}
}

func runLoop(cmd *cobra.Command, app *app) error {
	if !app.cfg.Loop.Enabled {
		return errors.New("loop is disabled, set loop.enabled = true in config.toml")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	targets, err := app.buildTargets(ctx, "")
	if err != nil {
		return err
	}

	orchestrator, cleanup := app.orchestrator(logger, cmd.ErrOrStderr())
	defer cleanup()

	scheduler, err := application.NewScheduler(orchestrator, app.clock, application.LoopConfig{
		Mode:        application.LoopMode(app.cfg.Loop.Mode),
		Interval:    app.cfg.Loop.Interval,
		DailyTime:   app.cfg.Loop.DailyTime,
		Timezone:    app.cfg.Loop.Timezone,
		MaxRuns:     app.cfg.Loop.MaxRuns,
		RetryFailed: app.cfg.Loop.RetryFailed,
		RetryDelay:  app.cfg.Loop.RetryDelay,
		RunOnStart:  app.cfg.Settings.RunOnStart,
	}, logger)
	if err != nil {
		return err
	}

	if err := scheduler.Run(ctx, targets); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
