package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hoyocheck",
		Short:         "HoYoLAB daily check-in automation",
		Long:          "hoyocheck signs in to HoYoLAB daily check-in events for your configured games using stored session cookies, with endpoint fallbacks, bounded retries, scheduling, and notifications.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newCheckinCmd(app),
		newLoopCmd(app),
		newGamesCmd(app),
		newCredentialsCmd(app),
		newHistoryCmd(app),
	)

	return rootCmd
}
