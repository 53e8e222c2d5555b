package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustle-plan/rustle-plan/internal/logging"
)

// ShellIntegration manages shell integration features
type ShellIntegration struct {
	logger *logging.Logger
}

// NewShellIntegration creates a new shell integration manager
func NewShellIntegration(logger *logging.Logger) *ShellIntegration {
	return &ShellIntegration{
		logger: logger,
	}
}

// SetupCompletion configures autocompletion for the root command
func (si *ShellIntegration) SetupCompletion(rootCmd *cobra.Command) {
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate autocompletion script for your shell",
		Long: `Generate autocompletion script for rustle-plan.

The completion script for each shell will be printed to stdout.

To load completions:

Bash:
 $ source <(rustle-plan completion bash)

 # To load completions for each session, execute once:
 # Linux:
 $ rustle-plan completion bash > /etc/bash_completion.d/rustle-plan
 # macOS:
 $ rustle-plan completion bash > /usr/local/etc/bash_completion.d/rustle-plan # adjust path as needed

Zsh:
 # If shell completion is not already enabled in your environment,
 # you will need to enable it. You can execute the following once:
 $ echo "autoload -U compinit; compinit" >> ~/.zshrc

 # To load completions for each session, execute once:
 $ rustle-plan completion zsh > "${fpath[1]}/_rustle-plan"

 # You will need to start a new shell for this setup to take effect.

Fish:
 $ rustle-plan completion fish | source

 # To load completions for each session, execute once:
 $ rustle-plan completion fish > ~/.config/fish/completions/rustle-plan.fish

PowerShell:
 PS> rustle-plan completion powershell | Out-String | Invoke-Expression

 # To load completions for every new session, run:
 PS> rustle-plan completion powershell > rustle-plan.ps1
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
			return fmt.Errorf("unsupported shell type: %s", args[0])
		},
	}

	rootCmd.AddCommand(completionCmd)

	si.setupDynamicCompletion(rootCmd)
}

// setupDynamicCompletion configures dynamic completion for planner flags
func (si *ShellIntegration) setupDynamicCompletion(rootCmd *cobra.Command) {
	si.registerOutputFormatCompletion(rootCmd)
	si.registerConfigFileCompletion(rootCmd)
	si.registerStrategyCompletion(rootCmd)
}

// registerOutputFormatCompletion sets up completion for output formats
func (si *ShellIntegration) registerOutputFormatCompletion(rootCmd *cobra.Command) {
	outputCompletion := func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		formats := []string{
			"table\tTable formatted output",
			"json\tJSON formatted output",
			"yaml\tYAML formatted output",
			"binary\tPlaceholder compact encoding (currently JSON bytes)",
			"dot\tGraphviz DOT rendering of the execution graph",
		}

		var matches []string
		for _, format := range formats {
			if strings.HasPrefix(format, toComplete) {
				matches = append(matches, format)
			}
		}

		return matches, cobra.ShellCompDirectiveDefault
	}

	_ = rootCmd.RegisterFlagCompletionFunc("output", outputCompletion)

	walkCommands(rootCmd, func(cmd *cobra.Command) {
		if flag := cmd.Flags().Lookup("output"); flag != nil {
			_ = cmd.RegisterFlagCompletionFunc("output", outputCompletion)
		}
	})
}

// registerConfigFileCompletion sets up completion for config files
func (si *ShellIntegration) registerConfigFileCompletion(rootCmd *cobra.Command) {
	configCompletion := func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if toComplete == "" {
			homeDir, _ := os.UserHomeDir()
			suggestions := []string{
				filepath.Join(homeDir, ".rustle-plan", "config.yaml"),
				"./rustle-plan.yaml",
				"./config.yaml",
			}

			var existing []string
			for _, path := range suggestions {
				if _, err := os.Stat(path); err == nil {
					existing = append(existing, path+"\tExisting config file")
				}
			}

			if len(existing) > 0 {
				return existing, cobra.ShellCompDirectiveDefault
			}
		}

		return nil, cobra.ShellCompDirectiveDefault
	}

	_ = rootCmd.RegisterFlagCompletionFunc("config", configCompletion)

	walkCommands(rootCmd, func(cmd *cobra.Command) {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			_ = cmd.RegisterFlagCompletionFunc("config", configCompletion)
		}
		if flag := cmd.Flags().Lookup("playbook"); flag != nil {
			_ = cmd.RegisterFlagCompletionFunc("playbook", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
				return nil, cobra.ShellCompDirectiveFilterFileExt
			})
		}
		if flag := cmd.Flags().Lookup("inventory"); flag != nil {
			_ = cmd.RegisterFlagCompletionFunc("inventory", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
				return nil, cobra.ShellCompDirectiveFilterFileExt
			})
		}
	})
}

// registerStrategyCompletion sets up completion for --strategy
func (si *ShellIntegration) registerStrategyCompletion(rootCmd *cobra.Command) {
	strategyCompletion := func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		suggestions := []string{
			"linear\tOne task at a time, fully ordered",
			"free\tParallel-eligible tasks first, then sequential",
			"rolling\tWindowed batches across hosts",
			"host_pinned\tOne batch per host",
			"binary_hybrid\tMix binary-suitable and SSH-driven batches",
			"binary_only\tAll eligible tasks run via compiled binaries",
		}

		var matches []string
		for _, suggestion := range suggestions {
			if strings.HasPrefix(suggestion, toComplete) {
				matches = append(matches, suggestion)
			}
		}

		return matches, cobra.ShellCompDirectiveDefault
	}

	_ = rootCmd.RegisterFlagCompletionFunc("strategy", strategyCompletion)

	walkCommands(rootCmd, func(cmd *cobra.Command) {
		if flag := cmd.Flags().Lookup("strategy"); flag != nil {
			_ = cmd.RegisterFlagCompletionFunc("strategy", strategyCompletion)
		}
	})
}

// walkCommands recursively walks through all commands and subcommands
func walkCommands(cmd *cobra.Command, fn func(*cobra.Command)) {
	fn(cmd)
	for _, subCmd := range cmd.Commands() {
		walkCommands(subCmd, fn)
	}
}

// GenerateShellAliases generates useful shell aliases for common workflows
func (si *ShellIntegration) GenerateShellAliases(shell string) string {
	aliases := map[string]map[string]string{
		"bash": {
			"rplan": "rustle-plan plan --playbook",
			"rplan-tasks": "rustle-plan plan --list-tasks --playbook",
			"rplan-hosts": "rustle-plan plan --list-hosts --playbook",
			"rplan-dot": "rustle-plan plan --visualize --output dot --playbook",
			"rplan-validate": "rustle-plan validate --playbook",
		},
		"zsh": {
			"rplan": "rustle-plan plan --playbook",
			"rplan-tasks": "rustle-plan plan --list-tasks --playbook",
			"rplan-hosts": "rustle-plan plan --list-hosts --playbook",
			"rplan-dot": "rustle-plan plan --visualize --output dot --playbook",
			"rplan-validate": "rustle-plan validate --playbook",
		},
		"fish": {
			"rplan": "rustle-plan plan --playbook $argv",
			"rplan-tasks": "rustle-plan plan --list-tasks --playbook $argv",
			"rplan-hosts": "rustle-plan plan --list-hosts --playbook $argv",
			"rplan-dot": "rustle-plan plan --visualize --output dot --playbook $argv",
			"rplan-validate": "rustle-plan validate --playbook $argv",
		},
	}

	shellAliases, exists := aliases[shell]
	if !exists {
		return fmt.Sprintf("# Aliases not available for shell: %s\n", shell)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("# Useful aliases for %s shell\n", shell))
	result.WriteString("# Add these to your shell profile (~/.bashrc, ~/.zshrc, etc.)\n\n")

	for alias, command := range shellAliases {
		switch shell {
		case "bash", "zsh":
			result.WriteString(fmt.Sprintf("alias %s='%s'\n", alias, command))
		case "fish":
			result.WriteString(fmt.Sprintf("alias %s '%s'\n", alias, command))
		}
	}

	return result.String()
}

// InstallInstructions returns installation instructions for shell integration
func (si *ShellIntegration) InstallInstructions(shell string) string {
	switch shell {
	case "bash":
		return `# Bash completion installation:

# For current session:
source <(rustle-plan completion bash)

# For all sessions (Linux):
rustle-plan completion bash | sudo tee /etc/bash_completion.d/rustle-plan > /dev/null

# For all sessions (macOS):
rustle-plan completion bash > /usr/local/etc/bash_completion.d/rustle-plan # adjust path as needed

# Add aliases to ~/.bashrc:
echo '` + si.GenerateShellAliases("bash") + `' >> ~/.bashrc`

	case "zsh":
		return `# Zsh completion installation:

# Enable completion (if not already enabled):
echo "autoload -U compinit; compinit" >> ~/.zshrc

# For current session:
source <(rustle-plan completion zsh)

# For all sessions:
rustle-plan completion zsh > "${fpath[1]}/_rustle-plan"

# Add aliases to ~/.zshrc:
echo '` + si.GenerateShellAliases("zsh") + `' >> ~/.zshrc

# Restart your shell or run: source ~/.zshrc`

	case "fish":
		return `# Fish completion installation:

# For current session:
rustle-plan completion fish | source

# For all sessions:
rustle-plan completion fish > ~/.config/fish/completions/rustle-plan.fish

# Add aliases (fish functions):
echo '` + si.GenerateShellAliases("fish") + `' >> ~/.config/fish/config.fish`

	case "powershell":
		return `# PowerShell completion installation:

# For current session:
rustle-plan completion powershell | Out-String | Invoke-Expression

# For all sessions, add to your PowerShell profile:
rustle-plan completion powershell >> $PROFILE

# Create useful aliases (add to $PROFILE):
Set-Alias rplan "rustle-plan plan --playbook"
Set-Alias rplan-validate "rustle-plan validate --playbook"`

	default:
		return fmt.Sprintf("Installation instructions not available for shell: %s", shell)
	}
}

// SetupAdvancedCompletion configures advanced dynamic completion against a
// remote inventory source, when one is configured.
func (si *ShellIntegration) SetupAdvancedCompletion(rootCmd *cobra.Command, remoteAPIKey, remoteAPISecret string) {
	if remoteAPIKey == "" || remoteAPISecret == "" {
		si.logger.Debug("remote inventory credentials not provided, skipping advanced completion")
		return
	}

	si.logger.Debug("advanced completion setup with remote inventory source")

	// TODO: wire a real dynamic-inventory source once
	// one exists, to complete host/group names instead of static examples.
}

// CompletionCommand creates a command for shell integration management
func (si *ShellIntegration) CompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell-integration",
		Short: "Manage shell integration features",
		Long:  "Commands to help set up and manage shell integration features like autocompletion and aliases.",
	}

	aliasCmd := &cobra.Command{
		Use:   "aliases [bash|zsh|fish]",
		Short: "Generate shell aliases for common workflows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			fmt.Print(si.GenerateShellAliases(shell))
			return nil
		},
	}

	installCmd := &cobra.Command{
		Use:   "install [bash|zsh|fish|powershell]",
		Short: "Show installation instructions for shell integration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := args[0]
			fmt.Print(si.InstallInstructions(shell))
			return nil
		},
	}

	cmd.AddCommand(aliasCmd, installCmd)
	return cmd
}
