package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"docqa/internal/config"
	"docqa/internal/logging"
)

var (
	cfgFile       string
	docsDir       string
	logLevel      string
	currentConfig *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:          "docqa",
	Short:        "Ask questions about a folder of documents",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var cfg *config.AppConfig
		var err error
		if cfgFile == "" {
			cfg, _, err = config.LoadDefault()
		} else {
			cfg, err = config.Load(cfgFile)
		}
		if err != nil {
			return err
		}
		// flags override the file
		if docsDir != "" {
			cfg.DocumentsDir = docsDir
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		currentConfig = cfg
		return nil
	},
	RunE: runChat,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and releases the log file whether or not
// the command succeeded.
func execute() error {
	err := rootCmd.Execute()
	if cerr := logging.Close(); err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./config.yaml or ~/.config/docqa/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&docsDir, "docs", "d", "", "documents folder (overrides documents_dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// getConfig returns the configuration loaded for the running command.
func getConfig() *config.AppConfig {
	return currentConfig
}

// initLogging sends logs to the configured file and, for line-oriented
// commands, to stderr. The chat UI owns the terminal and only logs to file.
func initLogging(cfg *config.AppConfig, console bool) error {
	return logging.Init(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level, Console: console})
}
