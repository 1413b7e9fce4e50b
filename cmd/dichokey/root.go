package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dichokey/dichokey/internal/cli"
	"github.com/dichokey/dichokey/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dichokey",
	Short: "Dichokey turns identification keys into static HTML sites",
	Long: `Dichokey reads a dichotomous identification key (a JSON decision graph)
and generates a static, cross-linked website: one page per characteristic
and species, with navigation diagrams and an annotated glossary.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); overrides DICHOKEY_LOG_LEVEL")
}

// setup loads the environment config and builds the logger every command
// shares. The --log-level flag wins over the environment.
func setup(cmd *cobra.Command) (*cli.Config, *slog.Logger, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("reading environment: %w", err)
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, logging.New(cfg.SlogLevel()), nil
}
