package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/pocketbank/pocketbank-cli/internal/adapters/tui"
	"github.com/pocketbank/pocketbank-cli/internal/domain"
)

func newUICmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive banking screens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := app.sessions.Load(cmd.Context())
			loggedIn := err == nil
			if err != nil && !errors.Is(err, domain.ErrNotLoggedIn) {
				return err
			}

			return tui.Run(tui.Deps{
				Sessions: app.sessions,
				Active:   app.active,
				Bank:     app.bank,
				Bus:      app.bus,
				Log:      app.log,
			}, loggedIn)
		},
	}
}
