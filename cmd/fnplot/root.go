package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/fnplot/internal/config"
)

// Version is the release version, set by build flags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "fnplot",
	Short: "Plot functions of one variable",
	Long: `fnplot samples and plots expressions in one variable x.

Expressions use numbers, x, the operators + - * / ^, parentheses, and a
fixed set of functions and constants such as sin, log, sqrt, pi, and e.
Nothing else is accepted, so expressions from untrusted sources are safe
to evaluate.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (YAML)")
}

// loadConfig reads the config file named by --config, if any.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
