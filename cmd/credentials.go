package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCredentialsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage stored HoYoLAB cookies",
	}

	cmd.AddCommand(
		newCredentialsInitCmd(app),
		newCredentialsListCmd(app),
	)

	return cmd
}

func newCredentialsInitCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a template credentials file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.credentials.Seed(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(),
				"Created %s\nFill in your HoYoLAB cookies before running a check-in.\n",
				app.credentials.Path())
			return err
		},
	}
}

func newCredentialsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored credential records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			credentials, err := app.credentials.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(credentials) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No credentials stored.")
				return err
			}

			for _, cred := range credentials {
				state := "complete"
				if missing := cred.MissingFields(); len(missing) > 0 {
					state = "missing " + strings.Join(missing, ", ")
				}
				uid := cred.LtUID
				if uid == "" {
					uid = "-"
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-4s  uid %-12s %s\n", cred.Game, uid, state); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
