package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "notesgit",
		Short:         "notesgit: keep notes in one Google Drive file and ask questions about them",
		Long:          "notesgit stores short notes in a single text file on Google Drive and answers questions about them with a hosted language model, from the terminal or a small web chat.",
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

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to log.level from config")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := setLogLevel(app.logLevel, logLevel); err != nil {
			return err
		}
		app.logger = newLogger(cmd.ErrOrStderr(), app.logLevel)
		return nil
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(app),
		newAuthCmd(app),
		newNoteCmd(app),
		newAskCmd(app),
		newSendCmd(app),
		newLedgerCmd(app),
		newChatCmd(app),
		newServeCmd(app),
	)

	return rootCmd
}
