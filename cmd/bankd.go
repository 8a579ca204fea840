package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pocketbank/pocketbank-cli/internal/devserver"
	"github.com/pocketbank/pocketbank-cli/internal/ports"
)

func newBankdCmd(app *app) *cobra.Command {
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "bankd",
		Short: "Run the local fixture bank API for development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := devserver.New(app.log, ports.SystemClock{})
			if err := server.SeedDemo(); err != nil {
				return fmt.Errorf("seed demo data: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bankd listening on %s (demo login: bank number 12345, password hunter2)\n", listenAddr)
			return http.ListenAndServe(listenAddr, server)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "127.0.0.1:5000", "Listen address")

	return cmd
}
