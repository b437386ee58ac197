// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the last30days CLI: research a topic
// across Reddit and X for the last 30 days and write a ranked, deduplicated
// report for downstream synthesis.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/last30days/internal/emit"
	"github.com/pdiddy/last30days/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE from --debug.
var logger = zap.NewNop()

// rootCmd runs a research pass when given a topic.
var rootCmd = &cobra.Command{
	Use:   "last30days <topic>",
	Short: "Research what Reddit and X said about a topic in the last 30 days",
	Long: `last30days searches Reddit (through OpenAI web search) and X (through xAI
X search) for discussion of a topic from the last 30 days. Reddit engagement
is verified against Reddit itself; results from both platforms are scored,
ranked, and deduplicated, then written as report.json, report.md, report.txt,
a reusable context snippet, and a queryable report.db.

A topic whose first word is a subcommand name must be quoted:
last30days "version control".

API keys live in ~/.config/last30days/.env; run "last30days setup" once to
create it. Either key alone is enough for a single-platform run.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		l, err := newLogger(debug)
		if err != nil {
			return err
		}
		logger = l
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", zap.String("path", f))
		}
		return nil
	},
	RunE: runResearch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./last30days.yaml or ~/.config/last30days/last30days.yaml)")
	rootCmd.PersistentFlags().String("credentials", "", "credential file (default: ~/.config/last30days/.env)")
	rootCmd.PersistentFlags().String("out-dir", "", "output directory (default: ~/.local/share/last30days/out)")
	rootCmd.PersistentFlags().Bool("debug", false, "log debug detail to stderr")

	viper.BindPFlag("out_dir", rootCmd.PersistentFlags().Lookup("out-dir"))
	viper.BindPFlag("credentials", rootCmd.PersistentFlags().Lookup("credentials"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("last30days")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "last30days"))
		}
	}

	viper.SetEnvPrefix("LAST30DAYS")
	viper.AutomaticEnv()

	viper.ReadInConfig()
}

// newLogger returns a console logger on stderr at info level, or debug
// level when debug is set.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !debug
	cfg.DisableCaller = !debug
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return l, nil
}

// credentialsPath is --credentials, the config file's credentials key, or
// the default location.
func credentialsPath() (string, error) {
	if p := viper.GetString("credentials"); p != "" {
		return p, nil
	}
	return secrets.DefaultPath()
}

// outDir is --out-dir, the config file's out_dir key, or the default.
func outDir() (string, error) {
	if d := viper.GetString("out_dir"); d != "" {
		return d, nil
	}
	return emit.DefaultDir()
}

// topicLikeArgs rejects arguments on subcommands that take none, pointing
// at the quoted form in case the words were meant as a topic.
func topicLikeArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	topic := strings.Join(append([]string{cmd.Name()}, args...), " ")
	return fmt.Errorf("%s takes no arguments; to research %q, quote it: last30days %q", cmd.Name(), topic, topic)
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
