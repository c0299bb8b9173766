package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/version"
)

func newVersionCmd() *cobra.Command {
	var verbose bool

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := mustRuntime(cmd)
			if err != nil {
				return err
			}

			info := version.GetInfo()
			if r.flags.Format != "text" && r.flags.Format != "" {
				return r.formatter.Format(info)
			}
			if verbose {
				return r.formatter.Format(info.Text())
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "evolvedu %s\n", info.Short())
			return err
		},
	}

	versionCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed version information")
	return versionCmd
}
