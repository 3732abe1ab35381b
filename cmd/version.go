package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/bnema/notesgit/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version); err != nil {
				return err
			}
			if !verbose {
				return nil
			}

			info, ok := debug.ReadBuildInfo()
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "go: %s\n", info.GoVersion)
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" || setting.Key == "vcs.time" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", setting.Key, setting.Value)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include Go and VCS build details")

	return cmd
}
