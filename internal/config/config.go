// Package config handles the cps tool configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/cps/internal/paths"
)

// Config represents the cps configuration.
type Config struct {
	// ProjectsFile overrides the location of the project store.
	ProjectsFile string `toml:"projects_file"`

	Scan   ScanConfig   `toml:"scan"`
	Picker PickerConfig `toml:"picker"`
	UI     UIConfig     `toml:"ui"`
}

// ScanConfig holds defaults for `cps scan`. Nil fields fall back to the
// built-in defaults.
type ScanConfig struct {
	MaxDepth       *int  `toml:"max_depth"`
	IncludeHidden  *bool `toml:"include_hidden"`
	FollowSymlinks *bool `toml:"follow_symlinks"`
	Jobs           *int  `toml:"jobs"`
}

// PickerConfig tunes the fzf selector.
type PickerConfig struct {
	Height string `toml:"height"`
	Prompt string `toml:"prompt"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown code blocks.
	CodeTheme string `toml:"code_theme"`
}

// LoadOrDefault loads path, returning an empty config when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/cps/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if p, err := XDGPath(); err == nil {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "cps", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/cps/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cps", "config.toml"), nil
}

// DefaultStorePath returns ~/.cps/projects.json.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ".cps", "projects.json"), nil
}

// StorePath resolves the project store location. An explicit override
// wins over projects_file, which wins over the default.
func (c *Config) StorePath(override string) (string, error) {
	for _, candidate := range []string{override, c.ProjectsFile} {
		if candidate == "" {
			continue
		}
		p, err := paths.Absolute(candidate)
		if err != nil {
			return "", fmt.Errorf("resolve store path %s: %w", candidate, err)
		}
		return p, nil
	}
	return DefaultStorePath()
}

// ScanDefaults fills unset scan settings with the given fallbacks.
func (c *Config) ScanDefaults(maxDepth, jobs int) (depth int, hidden, follow bool, workers int) {
	depth, workers = maxDepth, jobs
	if c.Scan.MaxDepth != nil {
		depth = *c.Scan.MaxDepth
	}
	if c.Scan.Jobs != nil {
		workers = *c.Scan.Jobs
	}
	if c.Scan.IncludeHidden != nil {
		hidden = *c.Scan.IncludeHidden
	}
	if c.Scan.FollowSymlinks != nil {
		follow = *c.Scan.FollowSymlinks
	}
	return depth, hidden, follow, workers
}

const defaultConfigTemplate = `# cps configuration

# Location of the project store (defaults to ~/.cps/projects.json)
# projects_file = "~/.cps/projects.json"

# Defaults for 'cps scan'
# [scan]
# max_depth = 2
# include_hidden = false
# follow_symlinks = false
# jobs = 4

# fzf selector
# [picker]
# height = "80%"
# prompt = "project> "

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault writes the commented default config to path if nothing
// exists there. It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
