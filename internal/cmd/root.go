package cmd

import (
	"context"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/evolvedu/internal/log"
	"github.com/felixgeelhaar/evolvedu/internal/platform"
	"github.com/felixgeelhaar/evolvedu/internal/ux"
)

// newRootCmd builds the command tree. Each call returns an independent tree,
// so tests can run commands side by side.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evolvedu",
		Short: "Terminal client for the EvolvEd AI learning platform",
		Long: `evolvedu signs you in to EvolvEd AI and lets you manage your account,
profile and learning dashboard from the terminal.

Your session is kept per API origin under the user config directory and is
cleared automatically when the server reports it has expired.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupRuntime,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("api-url", "", "API base URL (overrides EVOLVEDU_API_URL)")
	flags.String("config", "", "config file (default is <user config dir>/evolvedu/config.yaml)")
	flags.StringP("format", "f", "text", "output format: text, json or yaml")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolP("quiet", "q", false, "only print errors")
	level := log.LevelWarn
	flags.Var(&level, "log-level", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newAuthCmd(),
		newProfileCmd(),
		newDashboardCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newCompletionCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// ExecuteContext runs the CLI and reports any error on stderr. The error is
// returned so the caller can pick the exit code.
func ExecuteContext(ctx context.Context) error {
	return execute(ctx, newRootCmd())
}

func execute(ctx context.Context, rootCmd *cobra.Command) error {
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return nil
	}

	noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
	if r := runtimeFrom(cmd); r != nil {
		noColor = r.cfg.NoColor
		if r.expired() && stderrors.Is(err, platform.ErrAuthExpired) {
			// The session-expired hint has already been printed.
			return err
		}
	}
	ux.Report(rootCmd.ErrOrStderr(), err, noColor)
	return err
}
