package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pocket",
		Short:         "Pocket Bank CLI: manage your cards and transfer funds",
		Long:          "pocket is a terminal client for the Pocket Bank API: log in, list your bank accounts, pick the active card, and transfer funds from it.",
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
		newLoginCmd(app),
		newLogoutCmd(app),
		newAccountsCmd(app),
		newTransferCmd(app),
		newUICmd(app),
		newBankdCmd(app),
	)

	return rootCmd
}
