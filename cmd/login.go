package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var bankNumber string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, cards, err := app.bank.Login(cmd.Context(), bankNumber, password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}

			if err := app.sessions.Save(cmd.Context(), session, cards); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as bank number %s (%d cards)\n", session.BankNumber, len(cards))
			return nil
		},
	}

	cmd.Flags().StringVar(&bankNumber, "bank-number", "", "Bank number to log in with")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("bank-number")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session and active card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
