package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Load constructs a new *Config by merging (in increasing precedence order):
//  1. built-in defaults (see New())
//  2. YAML config file (default $HOME/.rustle-plan/config.yaml, override via
//     --config / RUSTLE_CONFIG_FILE)
//  3. environment variables prefixed with RUSTLE_
//  4. command-line flags bound on the provided *cobra.Command
//
// The resulting configuration is validated before being returned. Pass nil
// for cmd if you do not wish to bind flags (e.g., in tests).
func Load(cmd *cobra.Command, explicitPath string) (*Config, error) {
	cfg := New()

	v := viper.New()

	v.SetDefault("output", cfg.Output)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("planning.forks", cfg.Planning.Forks)
	v.SetDefault("planning.binary_threshold", cfg.Planning.BinaryThreshold)

	if explicitPath == "" {
		if envPath := os.Getenv("RUSTLE_CONFIG_FILE"); envPath != "" {
			explicitPath = envPath
		}
	}

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir, DefaultConfigDir))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, isNotFound := err.(viper.ConfigFileNotFoundError); !isNotFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("RUSTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		_ = v.BindPFlags(cmd.Flags())
		_ = v.BindPFlags(cmd.PersistentFlags())

		bind := func(key string, name string) {
			if f := cmd.Flags().Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
		bind("planning.strategy", "strategy")
		bind("planning.forks", "forks")
		bind("planning.binary_threshold", "binary-threshold")
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
