package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustle-plan/rustle-plan/cmd/plan"
	"github.com/rustle-plan/rustle-plan/internal/cli"
	"github.com/rustle-plan/rustle-plan/internal/config"
	"github.com/rustle-plan/rustle-plan/internal/logging"
)

var (
	verbose    bool
	quiet      bool
	configPath string
	logFormat  string

	outputFmt  string
	timeoutDur time.Duration

	appVersion string
	appCommit  string
	appDate    string
	appBuiltBy string

	logger           *logging.Logger
	signalHandler    *cli.SignalHandler
	shellIntegration *cli.ShellIntegration
	errorFormatter   *cli.EnhancedErrorFormatter

	rootCmd = &cobra.Command{
		Use:          "rustle-plan",
		Short:        "Plan Ansible-style playbook execution without running it",
		Long:         "rustle-plan compiles a playbook and inventory into a fully resolved execution plan: dependency-ordered batches, risk and duration estimates, and binary deployment opportunities, without connecting to a single host.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logConfig := &logging.Config{
				Level:         logging.LevelInfo,
				Format:        logFormat,
				Output:        os.Stderr,
				Quiet:         quiet,
				Verbose:       verbose,
				EnableMetrics: true,
				MaskSecrets:   true,
			}

			logger = logging.New(logConfig)
			logging.SetDefault(logger)

			signalHandler = cli.NewSignalHandler(logger, 30)
			signalHandler.Start()

			errorFormatter = cli.NewEnhancedErrorFormatter(verbose, logger)

			shellIntegration = cli.NewShellIntegration(logger)
			shellIntegration.SetupCompletion(cmd.Root())

			logger.Debug("root command initialization completed",
				"verbose", verbose,
				"quiet", quiet,
				"log_format", logFormat,
				"config_path", configPath)

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				logger.Debug("command execution completed", "command", cmd.Name())
			}
			return nil
		},
	}
)

// Execute runs the rustle-plan root command.
func Execute(version, commit, date, builtBy string) {
	appVersion = version
	appCommit = commit
	appDate = date
	appBuiltBy = builtBy

	err := cli.HandleWithRecovery("root_execution", func() error {
		return rootCmd.Execute()
	})

	if err != nil {
		if errorFormatter != nil {
			fmt.Fprintln(os.Stderr, errorFormatter.FormatWithAnalysis(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}

		if logger != nil {
			logger.Error("command execution failed", "error", err.Error())
		}

		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(plan.NewPlanGroupCmd())

	rootCmd.SetHelpCommand(newHelpCmd(rootCmd))

	cli.ConfigureCommandErrorHandling(rootCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging with detailed output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log output format: text, json")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $HOME/.rustle-plan/config.yaml)")

	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", string(config.OutputTable), "Output format: table, json, yaml, binary, dot")
	rootCmd.PersistentFlags().DurationVar(&timeoutDur, "timeout", config.DefaultTimeout, "Context timeout (e.g., 30s, 1m)")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("rustle-plan version: %s\n", appVersion)
			fmt.Printf("Build time: %s\n", appDate)
			fmt.Printf("Git commit: %s\n", appCommit)
			fmt.Printf("Built by: %s\n", appBuiltBy)
			fmt.Println("Go version:", "go1.24.5")

			if verbose {
				fmt.Println("\nFeatures:")
				fmt.Println("  Structured logging with configurable levels")
				fmt.Println("  Graceful signal handling (SIGINT/SIGTERM)")
				fmt.Println("  Enhanced error handling with context preservation")
				fmt.Println("  Shell integration (bash/zsh/fish/powershell)")
				fmt.Println("  Secret masking in logs")
				fmt.Println("  Performance metrics tracking")
			}

			return nil
		},
	}
	rootCmd.AddCommand(versionCmd)
}

// GetLogger returns the global logger instance.
func GetLogger() *logging.Logger {
	return logger
}

// GetSignalHandler returns the global signal handler instance.
func GetSignalHandler() *cli.SignalHandler {
	return signalHandler
}

// GetErrorFormatter returns the global error formatter instance.
func GetErrorFormatter() *cli.EnhancedErrorFormatter {
	return errorFormatter
}

// GetShellIntegration returns the global shell integration instance.
func GetShellIntegration() *cli.ShellIntegration {
	return shellIntegration
}
