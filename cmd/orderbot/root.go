package main

import (
	"fmt"
	"os"

	"github.com/posterman/orderbot/internal/cli"
	"github.com/posterman/orderbot/internal/config"
	"github.com/posterman/orderbot/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "orderbot",
	Short: "PosterMan order-support chatbot",
	Long: `orderbot answers PosterMan customers through a remote dialogue service and
falls back to a local rule-based dialogue when that service is unavailable.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default orderbot.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// loadConfig reads file, .env and environment settings, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("log-level"); cmd.Flags().Changed("log-level") {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); cmd.Flags().Changed("log-format") {
		cfg.Log.Format = v
	}
	return cfg, nil
}

// buildApp wires the bot for commands that talk to users.
func buildApp(cfg config.Config) (*cli.App, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewWithFormat(cfg.Log.Format, level)
	if err != nil {
		return nil, err
	}
	return cli.Build(cfg, logger)
}
