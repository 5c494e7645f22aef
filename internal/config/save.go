package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/cps/internal/atomicfile"
)

type persistedConfig struct {
	ProjectsFile *string                `toml:"projects_file,omitempty"`
	Scan         *ScanConfig            `toml:"scan,omitempty"`
	Picker       *persistedPickerConfig `toml:"picker,omitempty"`
	UI           *persistedUISettings   `toml:"ui,omitempty"`
}

type persistedPickerConfig struct {
	Height *string `toml:"height,omitempty"`
	Prompt *string `toml:"prompt,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config to path atomically. Empty values are omitted.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{ProjectsFile: nonEmptyPtr(cfg.ProjectsFile)}
	s := cfg.Scan
	if s.MaxDepth != nil || s.IncludeHidden != nil || s.FollowSymlinks != nil || s.Jobs != nil {
		out.Scan = &s
	}
	height, prompt := nonEmptyPtr(cfg.Picker.Height), nonEmptyPtr(cfg.Picker.Prompt)
	if height != nil || prompt != nil {
		out.Picker = &persistedPickerConfig{Height: height, Prompt: prompt}
	}
	accent, codeTheme := nonEmptyPtr(cfg.UI.Accent), nonEmptyPtr(cfg.UI.CodeTheme)
	if accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{Accent: accent, CodeTheme: codeTheme}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// Keys lists the settable config keys.
var Keys = []string{
	"projects_file",
	"scan.max_depth",
	"scan.include_hidden",
	"scan.follow_symlinks",
	"scan.jobs",
	"picker.height",
	"picker.prompt",
	"ui.accent",
	"ui.code_theme",
}

// Set assigns value to the dotted key on c. c is unchanged on error.
func (c *Config) Set(key, value string) error {
	next := *c
	var err error
	switch key {
	case "projects_file":
		next.ProjectsFile = value
	case "scan.max_depth":
		var n int
		n, err = parseNonNegative(value)
		next.Scan.MaxDepth = &n
	case "scan.jobs":
		var n int
		n, err = parseNonNegative(value)
		next.Scan.Jobs = &n
	case "scan.include_hidden":
		var b bool
		b, err = strconv.ParseBool(value)
		next.Scan.IncludeHidden = &b
	case "scan.follow_symlinks":
		var b bool
		b, err = strconv.ParseBool(value)
		next.Scan.FollowSymlinks = &b
	case "picker.height":
		next.Picker.Height = value
	case "picker.prompt":
		next.Picker.Prompt = value
	case "ui.accent":
		next.UI.Accent = value
	case "ui.code_theme":
		next.UI.CodeTheme = value
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*c = next
	return nil
}

func parseNonNegative(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}
