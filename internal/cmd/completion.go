package cmd

import (
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `To load completions:

Bash:
  $ source <(evolvedu completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ evolvedu completion bash > /etc/bash_completion.d/evolvedu
  # macOS:
  $ evolvedu completion bash > $(brew --prefix)/etc/bash_completion.d/evolvedu

Zsh:
  $ evolvedu completion zsh > "${fpath[1]}/_evolvedu"

Fish:
  $ evolvedu completion fish > ~/.config/fish/completions/evolvedu.fish

PowerShell:
  PS> evolvedu completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion scripts need no config or session.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
