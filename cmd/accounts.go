package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pocketbank/pocketbank-cli/internal/adapters/tui"
	"github.com/pocketbank/pocketbank-cli/internal/application"
	"github.com/pocketbank/pocketbank-cli/internal/domain"
)

func newAccountsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List your bank accounts and the active card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := loadSession(cmd, app)
			if err != nil {
				return err
			}

			var overview application.Overview
			fetch := func(ctx context.Context) error {
				var fetchErr error
				overview, fetchErr = app.active.LoadOverview(ctx, session)
				return fetchErr
			}

			if asJSON {
				if err := fetch(cmd.Context()); err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(overview)
			}

			if err := tui.RunSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching accounts...", fetch); err != nil {
				return err
			}

			rendered, err := tui.RenderOverview(overview)
			if err != nil {
				return fmt.Errorf("render accounts: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	cmd.AddCommand(newAccountsSelectCmd(app))

	return cmd
}

func newAccountsSelectCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "select <account-id>",
		Short: "Set the active card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := loadSession(cmd, app)
			if err != nil {
				return err
			}

			accounts, err := app.bank.FetchAccounts(cmd.Context(), session)
			if err != nil {
				return fmt.Errorf("fetch accounts: %w", err)
			}

			account, ok := domain.FindAccount(accounts, domain.AccountID(args[0]))
			if !ok {
				return fmt.Errorf("account %q: %w", args[0], domain.ErrAccountNotFound)
			}

			if err := app.active.SetActiveAccount(cmd.Context(), account); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s has been set as the active account!\n", account.AccountName)
			return nil
		},
	}
}

func loadSession(cmd *cobra.Command, app *app) (domain.Session, error) {
	session, err := app.sessions.Load(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotLoggedIn) {
			return domain.Session{}, fmt.Errorf("%w: please run `pocket login` to continue", domain.ErrNotLoggedIn)
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	return session, nil
}
