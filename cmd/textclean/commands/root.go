// Package commands implements the CLI commands for textclean.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaner"
	"github.com/aalekhpatel07/text-cleaner/internal/core/services/cleaning"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/config"
	"github.com/aalekhpatel07/text-cleaner/internal/pkg/logger"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "textclean",
		Short: "Clean text with an ordered pipeline of named transformations",
		Long: `textclean runs text through named transformations such as
trim, remove_all_urls or remove_letter_accents.

Transformations given with -t run in the order given. A preset (-p)
runs its transformations in catalog order.

Examples:
  # Trim (the default preset)
  echo "  hello  " | textclean clean

  # Explicit order
  textclean clean -t remove_all_emails -t trim "  mail a@b.com  "

  # Clean a column of a CSV file
  textclean file comments.csv -c body -p redact --format jsonl

  # Serve the HTTP API
  textclean serve --port 8080`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (YAML, keys as in the environment)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("json-logs", false, "write logs as JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(
		newListCmd(),
		newCleanCmd(),
		newFileCmd(),
		newServeCmd(),
		newWorkerCmd(),
	)
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	cfgFile := viper.GetString("config")
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		logError("failed to read config %s: %v", cfgFile, err)
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads configuration and initializes logging.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logger.Initialize(logger.Options{
		Environment: cfg.Environment,
		Debug:       viper.GetBool("debug") || cfg.LogLevel == "debug",
		Quiet:       viper.GetBool("quiet"),
		JSON:        viper.GetBool("json_logs"),
	})
	return cfg, log, nil
}

// newCleaningService builds the cleaning service with the built-in presets
// plus any presets file from the configuration.
func newCleaningService(cfg *config.Config, log *slog.Logger, source string, opts ...cleaning.Option) (*cleaning.Service, error) {
	presets := cleaner.NewPresetRegistry()
	if path := cfg.Cleaner.PresetsFile; path != "" {
		f, err := os.Open(path) //#nosec G304 -- presets file comes from configuration
		if err != nil {
			return nil, fmt.Errorf("failed to open presets file: %w", err)
		}
		defer func() { _ = f.Close() }()
		n, err := presets.LoadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load presets from %s: %w", path, err)
		}
		log.Debug("presets loaded", slog.String("path", path), slog.Int("count", n))
	}

	return cleaning.NewService(cleaning.Config{
		DefaultPreset: cfg.Cleaner.DefaultPreset,
		MaxTextBytes:  cfg.Cleaner.MaxTextBytes,
		Source:        source,
	}, presets, log, opts...), nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
