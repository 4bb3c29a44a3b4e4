package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

func newGamesCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List supported games and their enabled state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, spec := range domain.AllGames() {
				state := "disabled"
				if app.cfg.Games[spec.ID] {
					state = "enabled"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-4s  %-22s %s\n", spec.ID, spec.Name, state); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
