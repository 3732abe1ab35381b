package cmd

import (
	"fmt"
	"time"

	authadapter "github.com/bnema/notesgit/internal/adapters/auth"
	"github.com/spf13/cobra"
)

const loginTimeout = 5 * time.Minute

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Google Drive authorization",
	}

	cmd.AddCommand(newAuthLoginCmd(app), newAuthLogoutCmd(app))

	return cmd
}

func newAuthLoginCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize Google Drive access in the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			clientConfig, err := authadapter.LoadClientConfig(app.cfg.Google.CredentialsFile)
			if err != nil {
				return err
			}

			pending, err := authadapter.BrowserFlow{
				Config:     clientConfig,
				ListenAddr: app.cfg.Google.CallbackAddr,
				Timeout:    loginTimeout,
			}.Start()
			if err != nil {
				return fmt.Errorf("start browser login: %w", err)
			}
			defer func() { _ = pending.Close() }()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to authorize notesgit:\n%s\n", pending.AuthURL)

			token, err := pending.Complete(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.tokenStore.Save(cmd.Context(), token); err != nil {
				return fmt.Errorf("save google token: %w", err)
			}

			app.logger.Info("google token saved", "path", app.cfg.Google.TokenFile)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Authorized")
			return nil
		},
	}
}

func newAuthLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved Google token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.tokenStore.Delete(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
