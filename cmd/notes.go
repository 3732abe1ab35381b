package cmd

import (
	"fmt"
	"strings"

	"github.com/bnema/notesgit/internal/application"
	"github.com/spf13/cobra"
)

func newNoteCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Store notes in the ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Append a dated note to the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, _, err := app.assistant(cmd.Context(), false)
			if err != nil {
				return err
			}

			reply, err := assistant.Save(cmd.Context(), application.NewSession(app.newID()), strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return err
		},
	})

	return cmd
}

func newAskCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the stored notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, _, err := app.assistant(cmd.Context(), true)
			if err != nil {
				return err
			}

			reply, err := assistant.Ask(cmd.Context(), application.NewSession(app.newID()), strings.Join(args, " "))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return err
		},
	}
}

func newSendCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message>",
		Short: "Classify a message and either store it or answer it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, _, err := app.assistant(cmd.Context(), true)
			if err != nil {
				return err
			}

			reply := assistant.Handle(cmd.Context(), application.NewSession(app.newID()), strings.Join(args, " "))
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), reply.Text); err != nil {
				return err
			}

			return reply.Err
		},
	}
}
