// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/config"
	"github.com/aidanlsb/cps/internal/logger"
	"github.com/aidanlsb/cps/internal/ui"
)

var (
	// Global flags
	configPath string
	storePath  string
	debugMode  bool

	// Resolved values
	resolvedConfigPath string
	resolvedStorePath  string
	cfg                *config.Config
	appLogger          = logger.Nop()

	// stdout receives command output; it follows cobra's configured writer.
	stdout io.Writer = os.Stdout
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cps",
	Short: "cps - fast switching between code projects",
	Long: `cps keeps a registry of the git repositories you work in and gets you
back to them quickly, by name, by recency, or through an fzf picker.

Projects are stored in ~/.cps/projects.json.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stdout = cmd.OutOrStdout()

		appLogger = logger.New(
			logger.WithDebug(debugMode),
			logger.WithWriter(cmd.ErrOrStderr()),
			logger.WithPrefix("cps"),
			logger.WithJSON(isJSONOutput()),
			logger.WithPretty(!isJSONOutput()),
		)

		switch cmd.Name() {
		case "help", "version", "completion":
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix the file or run 'cps config path' to locate it")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		resolvedStorePath, err = cfg.StorePath(storePath)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		appLogger.Debug("configuration resolved", "config", resolvedConfigPath, "store", resolvedStorePath)
		return nil
	},
}

// Execute runs the CLI. Errors already rendered as a JSON envelope are not
// printed again.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), ui.Error(err.Error()))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Path to the project store (overrides projects_file in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripts)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging on stderr")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

func getLogger() *slog.Logger {
	return appLogger
}

func resolveConfigPath() string {
	if strings.TrimSpace(configPath) != "" {
		return configPath
	}
	return config.DefaultPath()
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	path := resolveConfigPath()
	loadedCfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, "", err
	}
	return loadedCfg, path, nil
}
