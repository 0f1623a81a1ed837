package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for fixturegraph.

To load completions:

Bash:
  $ source <(fixturegraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ fixturegraph completion bash > /etc/bash_completion.d/fixturegraph
  # macOS:
  $ fixturegraph completion bash > $(brew --prefix)/etc/bash_completion.d/fixturegraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ fixturegraph completion zsh > "${fpath[1]}/_fixturegraph"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ fixturegraph completion fish | source

  # To load completions for each session, execute once:
  $ fixturegraph completion fish > ~/.config/fish/completions/fixturegraph.fish

PowerShell:
  PS> fixturegraph completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> fixturegraph completion powershell > fixturegraph.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// manifestExtensions are offered when completing a manifest argument.
var manifestExtensions = []string{"toml", "yaml", "yml", "json"}

// completeManifest completes the manifest argument of single-argument commands.
func completeManifest(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return manifestExtensions, cobra.ShellCompDirectiveFilterFileExt
}

// completeFixtures completes the manifest, then fixture names read from it.
func completeFixtures(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return manifestExtensions, cobra.ShellCompDirectiveFilterFileExt
	}
	m, err := readManifest(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, name := range m.Names() {
		if strings.HasPrefix(name, toComplete) && !slices.Contains(args[1:], name) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
