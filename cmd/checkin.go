package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	summaryrender "github.com/wangyi68/hoyolab-auto-checkin/internal/adapters/render/summary"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

var errRunFailed = errors.New("one or more check-ins failed")

func newCheckinCmd(app *app) *cobra.Command {
	var game string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "checkin",
		Aliases: []string{"run"},
		Short:   "Run one check-in pass for the enabled games",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheckin(cmd, app, game, asJSON)
		},
	}

	cmd.Flags().StringVar(&game, "game", "", "Check in a single game (hsr, gi, zzz, hi3)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runCheckin(cmd *cobra.Command, app *app, game string, asJSON bool) error {
	ctx := cmd.Context()

	targets, err := app.buildTargets(ctx, game)
	if err != nil {
		return err
	}

	orchestrator, cleanup := app.orchestrator(nil, cmd.ErrOrStderr())
	defer cleanup()

	var summary domain.RunSummary
	err = runCheckinSpinner(ctx, cmd.ErrOrStderr(), func(ctx context.Context) error {
		summary = orchestrator.Run(ctx, targets)
		return nil
	})
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(summary); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
	} else {
		rendered, err := app.renderSummary(summary, summaryrender.RenderOptions{ShowElapsed: true})
		if err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), rendered); err != nil {
			return err
		}
	}

	if !summary.OverallSuccess {
		return errRunFailed
	}

	return nil
}
