package cmd

import (
	"fmt"
	"os"

	"newsdigest/config"
	"newsdigest/logger"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "newsdigest",
	Short: "Aggregate AI news feeds into a summarized archive",
	Long: `newsdigest polls a fixed list of RSS feeds, skips articles already in the archive,
attaches a cover image and a short generated summary to each new one, and saves the
most recent items as a JSON document.

Each invocation performs a single pass; schedule it with cron or a similar tool.`,
	SilenceUsage: true,
	RunE:         runOnce,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsdigest %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.pipeline.Run(ctx)
	fmt.Fprintln(cmd.OutOrStdout(), renderReport(report, err))
	return err
}

func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, logger.New(cfg.LogLevel), nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
