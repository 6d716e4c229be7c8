package main

import (
	"fmt"

	"github.com/spf13/cobra"

	clierrors "github.com/sethdford/genai-toolbox-enterprise/internal/errors"
)

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell and write it to stdout.

Load it in the current shell or save it wherever your shell reads completions
from.`,
		Example: `  source <(toolbox-launcher completion bash)
  toolbox-launcher completion zsh > "${fpath[1]}/_toolbox-launcher"
  toolbox-launcher completion fish > ~/.config/fish/completions/toolbox-launcher.fish`,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			w := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			default:
				return &clierrors.CLIError{
					Message: fmt.Sprintf("unsupported shell %q", args[0]),
					Hint:    "Supported shells: bash, zsh, fish, powershell",
					Code:    clierrors.ExitUsage,
				}
			}
		},
	}
}
