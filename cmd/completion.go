package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for checkpoint.

To load completions:

Bash:
  $ source <(checkpoint completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ checkpoint completion bash > /etc/bash_completion.d/checkpoint
  # macOS:
  $ checkpoint completion bash > $(brew --prefix)/etc/bash_completion.d/checkpoint

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ checkpoint completion zsh > "${fpath[1]}/_checkpoint"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ checkpoint completion fish | source
  # To load completions for each session, execute once:
  $ checkpoint completion fish > ~/.config/fish/completions/checkpoint.fish

PowerShell:
  PS> checkpoint completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> checkpoint completion powershell > checkpoint.ps1
  # and source this file from your PowerShell profile.
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
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
