// Package shellquote renders strings safely for POSIX shells.
package shellquote

import "strings"

// Quote wraps s in single quotes, escaping any internal single quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Cd returns a command that changes to dir, suitable for eval.
func Cd(dir string) string {
	return "cd " + Quote(dir)
}
