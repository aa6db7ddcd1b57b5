// Package cmd implements the guardrail CLI using cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crystaldolphin/guardrail/internal/config"
	"github.com/crystaldolphin/guardrail/internal/dependency"
	"github.com/crystaldolphin/guardrail/internal/logging"
)

const version = "0.1.0"
const logo = "🛡"

var (
	configPath string
	showLogs   bool
	verbose    bool

	logger = zap.NewNop()
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:           "guardrail",
	Short:         logo + " guardrail: contract-checked LLM classification and tool dispatch",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		l, err := logging.New(showLogs, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.guardrail/config.json)")
	rootCmd.PersistentFlags().BoolVar(&showLogs, "logs", false, "Show runtime logs on stderr")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Include debug logs (with --logs)")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(statusCmd)
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.ConfigPath()
}

// loadConfig reads .env files and the config file, then validates it.
func loadConfig() (*config.Config, error) {
	path := resolvedConfigPath()
	if err := config.LoadEnv(config.DataDir()); err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func loadContainer() (*config.Config, *dependency.ServiceContainer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	container, err := dependency.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, container, nil
}
