package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for golabel.

To load completions:

Bash:

  $ source <(golabel completion bash)

  To load completions for each session, execute once:
  Linux:
    $ golabel completion bash > /etc/bash_completion.d/golabel
  macOS:
    $ golabel completion bash > /usr/local/etc/bash_completion.d/golabel

Zsh:

  If shell completion is not already enabled in your environment,
  you will need to enable it. You can execute the following once:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  To load completions for each session, execute once:
  $ golabel completion zsh > "${fpath[1]}/_golabel"

  You will need to start a new shell for this setup to take effect.

Fish:

  $ golabel completion fish | source

  To load completions for each session, execute once:
  $ golabel completion fish > ~/.config/fish/completions/golabel.fish

PowerShell:

  PS> golabel completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return fmt.Errorf("unsupported shell %q", args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
