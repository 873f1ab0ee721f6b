// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the csv2posts CLI, which turns a CSV
// export of blog posts into Jekyll post files.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE; subcommands pass it to internal packages.
var logger = zap.NewNop()

// rootCmd is the base command for the csv2posts CLI.
var rootCmd = &cobra.Command{
	Use:   "csv2posts",
	Short: "Convert CSV rows into Jekyll posts",
	Long: `csv2posts migrates a CSV export of blog posts into a Jekyll site. Each
data row becomes one file in _posts/ named YYYY-MM-DD-<permalink>.markdown,
with YAML front matter built from the row.

Use import to write the posts, verify to check an existing posts directory,
and history to inspect runs recorded in an import ledger.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./csv2posts.yaml or ~/.config/csv2posts/csv2posts.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every row as it is processed")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("csv2posts")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "csv2posts"))
		}
	}

	viper.SetEnvPrefix("CSV2POSTS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger returns a console logger on stderr. Warnings and errors are
// always shown; verbose adds per-row debug output.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
