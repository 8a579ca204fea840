package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/pocketbank/pocketbank-cli/internal/domain"
)

func newTransferCmd(app *app) *cobra.Command {
	var recipient string
	var rawAmount string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer funds from the active card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := loadSession(cmd, app)
			if err != nil {
				return err
			}

			snapshot, err := app.active.ReadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if snapshot == nil {
				return fmt.Errorf("%w: pick one with `pocket accounts select`", domain.ErrNoActiveAccount)
			}

			amount, err := decimal.NewFromString(rawAmount)
			if err != nil {
				return fmt.Errorf("parse amount %q: %w", rawAmount, err)
			}
			if !amount.IsPositive() {
				return fmt.Errorf("amount must be positive, got %s", amount)
			}

			if err := app.bank.Transfer(cmd.Context(), session, snapshot.ID, recipient, amount); err != nil {
				return fmt.Errorf("transfer: %w", err)
			}

			// Displayed balance comes from server truth, not the entered amount.
			updated, err := app.active.RefreshAfterMutation(cmd.Context(), session, snapshot.ID)
			if err != nil {
				return fmt.Errorf("transfer succeeded but refreshing the active card failed: %w", err)
			}

			if updated == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Transfer completed; the active account is no longer available.")
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Transfer completed successfully. %s balance: $%s\n", updated.AccountName, updated.Balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&recipient, "to", "", "Recipient bank number")
	cmd.Flags().StringVar(&rawAmount, "amount", "", "Amount to transfer")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
