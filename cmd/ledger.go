package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/notesgit/internal/application"
	"github.com/spf13/cobra"
)

func newLedgerCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the notes ledger",
	}

	cmd.AddCommand(newLedgerShowCmd(app), newLedgerPathCmd(app))

	return cmd
}

func newLedgerShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the full ledger content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, err := app.ledgerService(cmd.Context())
			if err != nil {
				return err
			}

			content, err := ledger.Read(cmd.Context(), application.NewSession(app.newID()))
			if err != nil {
				return err
			}

			if strings.TrimSpace(content) == "" {
				_, err = fmt.Fprintln(cmd.ErrOrStderr(), "ledger is empty")
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), content)
			return err
		},
	}
}

func newLedgerPathCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the resolved ledger handle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, err := app.ledgerService(cmd.Context())
			if err != nil {
				return err
			}

			handle, err := ledger.Resolve(cmd.Context(), application.NewSession(app.newID()))
			if err != nil {
				return err
			}

			if handle.IsZero() {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (not created yet)\n", ledger.Name())
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ledger.Name(), handle)
			return err
		},
	}
}
