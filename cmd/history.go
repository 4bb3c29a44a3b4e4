package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/adapters/history"
)

func newHistoryCmd(app *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent check-in runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.cfg.History.Enabled {
				return errors.New("history is disabled, set history.enabled = true in config.toml")
			}

			store, err := history.Open(app.cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer func() { _ = store.Close() }()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return err
			}

			for _, run := range runs {
				status := "FAILED"
				if run.OverallSuccess {
					status = "OK"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s  %-6s %d games\n",
					run.StartedAt.Local().Format("2006-01-02 15:04"), status, len(run.Results)); err != nil {
					return err
				}
				for _, result := range run.Results {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "    [%s] %s\n", result.Game, result.Status); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of runs to show")

	return cmd
}
