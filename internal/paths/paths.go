// Package paths provides helpers for turning user-supplied directory
// arguments into the canonical absolute paths used as project identity.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// userHomeDir is swapped in tests.
var userHomeDir = os.UserHomeDir

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other forms (e.g. "~alice/x") are returned unchanged.
func ExpandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return p, nil
	}
	home, err := userHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return home, nil
	}
	return filepath.Join(home, p[2:]), nil
}

// Absolute expands "~" and returns a cleaned absolute path.
func Absolute(p string) (string, error) {
	expanded, err := ExpandHome(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// Canonical returns the absolute path with symlinks resolved. When the
// path cannot be resolved (e.g. it does not exist) the cleaned absolute
// path is returned instead.
func Canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// IsDir reports whether p exists and is a directory.
func IsDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// Shorten replaces the home directory prefix of p with "~" for display.
func Shorten(p string) string {
	home, err := userHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == home {
		return "~"
	}
	prefix := home + string(filepath.Separator)
	if strings.HasPrefix(p, prefix) {
		return "~" + string(filepath.Separator) + strings.TrimPrefix(p, prefix)
	}
	return p
}
