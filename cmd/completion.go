package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for punch.

Bash:
  source <(punch completion bash)
  punch completion bash > ~/.local/share/bash-completion/completions/punch

Zsh:
  punch completion zsh > "${fpath[1]}/_punch"

Fish:
  punch completion fish > ~/.config/fish/completions/punch.fish

PowerShell:
  punch completion powershell | Out-String | Invoke-Expression`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion writes the completion script for shell to stdout
func generateCompletion(shell string) {
	var err error

	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(deps.Stdout, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(deps.Stdout)
	case "fish":
		err = rootCmd.GenFishCompletion(deps.Stdout, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(deps.Stdout)
	default:
		fail(fmt.Sprintf("Unsupported shell '%s'", shell), nil, "Supported shells: bash, zsh, fish, powershell")
		return
	}

	if err != nil {
		fail(fmt.Sprintf("Failed to generate %s completion", shell), err, "")
	}
}
