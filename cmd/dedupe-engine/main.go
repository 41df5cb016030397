// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dedupe-engine CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/dedupe-engine/internal/dedupe"
	"github.com/pdiddy/dedupe-engine/internal/logging"
	"github.com/pdiddy/dedupe-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from log_level once configuration has been read.
var logger = slog.New(slog.DiscardHandler)

// rootCmd is the base command for the dedupe-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "dedupe-engine",
	Short: "Find duplicate references in bibliographic record lists",
	Long: `dedupe-engine finds duplicate references in lists of bibliographic records
that share no stable key. A named strategy normalizes each record's fields and
runs sorted sweeps comparing neighbouring records; the chosen action annotates,
marks, or removes the duplicates it finds.

Records are read from JSON, YAML, or CSL-YAML files. The library subcommands
keep imported lists and dedupe runs in a local SQLite database.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.New(viper.GetString("log_level"), os.Stderr)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dedupe-engine.yaml or ~/.config/dedupe-engine/dedupe-engine.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("strategies-dir", "", "directory of extra strategy YAML files")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("strategies_dir", rootCmd.PersistentFlags().Lookup("strategies-dir"))

	setDefaults()
}

// setDefaults mirrors dedupe.DefaultSettings so config files only need the
// keys they change.
func setDefaults() {
	d := dedupe.DefaultSettings()
	viper.SetDefault("strategy", d.Strategy)
	viper.SetDefault("validate_strategy", d.ValidateStrategy)
	viper.SetDefault("action", string(d.Action))
	viper.SetDefault("action_field", d.ActionField)
	viper.SetDefault("threshold", d.Threshold)
	viper.SetDefault("mark_ok", d.MarkOK.String())
	viper.SetDefault("mark_dupe", d.MarkDupe.String())
	viper.SetDefault("dupe_ref", string(d.DupeRef))
	viper.SetDefault("field_weight", string(d.FieldWeight))
	viper.SetDefault("mark_original", d.MarkOriginal)
	viper.SetDefault("library_dir", "library")
	viper.SetDefault("max_results", 50)
	viper.SetDefault("log_level", "warn")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dedupe-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dedupe-engine"))
		}
	}

	viper.SetEnvPrefix("DEDUPE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newEngine returns an engine logging through the CLI logger, with any
// strategies from strategies_dir registered alongside the presets.
func newEngine() (*dedupe.Engine, error) {
	engine := dedupe.New()
	engine.Logger = logger

	dir := viper.GetString("strategies_dir")
	if dir == "" {
		return engine, nil
	}
	names, err := engine.Strategies.LoadDir(dir)
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		logger.Info("loaded strategies", "dir", dir, "names", names)
	}
	return engine, nil
}

// dedupeConfig reads the engine settings from flags, environment, and the
// config file.
func dedupeConfig() (types.DedupeConfig, error) {
	var cfg types.DedupeConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading dedupe settings: %w", err)
	}
	return cfg, nil
}

func libraryConfig() types.LibraryConfig {
	return types.LibraryConfig{
		LibraryDir: viper.GetString("library_dir"),
		MaxResults: viper.GetInt("max_results"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
