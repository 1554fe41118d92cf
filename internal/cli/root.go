package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessro/procsim/internal/config"
	"github.com/tessro/procsim/internal/logging"
	"github.com/tessro/procsim/internal/paths"
)

// Global flag values.
var (
	procsimDir string
	configFile string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Concurrent process lifecycle simulator",
	Long: "procsim runs a set of simulated processes through the New, Ready, Running, Waiting " +
		"and Terminated states in parallel and reports their CPU and I/O time.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Set PROCSIM_DIR if --procsim-dir is provided so every path helper
		// uses the override.
		if procsimDir != "" {
			if err := os.Setenv(paths.EnvBaseDir, procsimDir); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&procsimDir, "procsim-dir", "", "base directory for procsim data (overrides ~/.procsim)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/procsim/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default ~/.procsim/procsim.log)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveConfigPath returns --config or the default config path.
func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return paths.ConfigPath()
}

// loadConfig reads the effective configuration file, falling back to defaults.
func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		if err := config.ValidateLogLevel(logLevel); err != nil {
			return nil, err
		}
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

// setupLogging points slog at the log file for the rest of the command.
func setupLogging(cfg *config.Config) (cleanup func(), err error) {
	cleanup, err = logging.Setup(logFile, nil, logging.ParseLevel(cfg.GetLogLevel()))
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return cleanup, nil
}
