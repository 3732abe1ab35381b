package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	chatrender "github.com/bnema/notesgit/internal/adapters/render/chat"
	"github.com/bnema/notesgit/internal/adapters/web"
	"github.com/bnema/notesgit/internal/application"
	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with your notes in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			assistant, ledger, err := app.assistant(ctx, true)
			if err != nil {
				return err
			}

			session := application.NewSession(app.newID())
			handle := func(ctx context.Context, input string) application.Reply {
				return assistant.Handle(ctx, session, input)
			}

			return chatrender.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), handle, chatrender.Options{
				Locale:    assistant.Locale(),
				LedgerRef: ledger.Name(),
			})
		},
	}
}

func newServeCmd(app *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web chat",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			assistant, ledger, err := app.assistant(ctx, true)
			if err != nil {
				return err
			}

			server := web.NewServer(assistant, ledger, application.NewSessionRegistry(app.newID), app.logger)
			return server.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", app.cfg.Server.Addr, "Listen address")

	return cmd
}
