// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the privscan CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/privscan/internal/logging"
	"github.com/pdiddy/privscan/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets map[string]string

	// loadedDotenv holds values parsed from .env at startup.
	loadedDotenv map[string]string

	// logger is configured from log.level and log.format before any command runs.
	logger = logrus.New()
)

// rootCmd is the base command for the privscan CLI.
var rootCmd = &cobra.Command{
	Use:   "privscan",
	Short: "Flag documents likely protected by legal privilege",
	Long: `privscan screens extracted document text for attorney-client privilege and
work-product protection before production in e-discovery. Each document is
scored by privilege keywords, structural patterns (attorney addresses,
privileged subject lines, law-firm letterheads), and optionally a hosted
language model, then classified under a low, medium, or high sensitivity
profile.

Results are written to a JSON or YAML file and can be recorded in a local
review store for later filtering.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logConfig(), os.Stderr)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s

		env, err := secrets.LoadEnvFile(".env")
		if err != nil {
			return err
		}
		loadedDotenv = env

		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./privscan.yaml or ~/.config/privscan/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("privscan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "privscan"))
		}
	}

	viper.SetEnvPrefix("PRIVSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
