package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colorsplash/pkg/canvas"
	"github.com/matzehuels/colorsplash/pkg/stencil"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for colorsplash.

Bash:
  $ source <(colorsplash completion bash)

Zsh:
  $ colorsplash completion zsh > "${fpath[1]}/_colorsplash"

Fish:
  $ colorsplash completion fish | source

PowerShell:
  PS> colorsplash completion powershell | Out-String | Invoke-Expression

Fruit and color names complete for the --fruit flag of tui.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeFruits completes stencil names.
func completeFruits(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	return matching(stencil.Names(), prefix), cobra.ShellCompDirectiveNoFileComp
}

// completeColors completes palette color names and the eraser.
func completeColors(_ *cobra.Command, _ []string, prefix string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, c := range append(canvas.Palette(), canvas.Eraser) {
		names = append(names, c.Name)
	}
	return matching(names, prefix), cobra.ShellCompDirectiveNoFileComp
}

func matching(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, strings.ToLower(prefix)) {
			out = append(out, n)
		}
	}
	return out
}
