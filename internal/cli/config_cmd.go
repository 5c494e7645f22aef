package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/cps/internal/config"
	"github.com/aidanlsb/cps/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the cps configuration file",
	Long: `Inspect and edit the TOML configuration file.

The file lives at ~/.config/cps/config.toml unless --config points elsewhere.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path, "created": created}, nil)
			return nil
		}
		if !created {
			outln(ui.Infof("Config already exists: %s", path))
			return nil
		}
		outln(ui.Successf("Created config: %s", path))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config and project store locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config": resolvedConfigPath,
				"store":  resolvedStorePath,
			}, nil)
			return nil
		}
		outf("config: %s\n", resolvedConfigPath)
		outf("store:  %s\n", resolvedStorePath)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Sets a single key in the config file, creating the file if needed.

Keys: ` + strings.Join(config.Keys, ", ") + `

Examples:
  cps config set scan.max_depth 3
  cps config set picker.height 50%
  cps config set ui.accent "#7aa2f7"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath()
		current, err := config.LoadOrDefault(path)
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if err := current.Set(args[0], args[1]); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := config.SaveTo(path, current); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"path":  path,
				"key":   args[0],
				"value": args[1],
			}, nil)
			return nil
		}
		outln(ui.Successf("Set %s = %s", args[0], args[1]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
