// Package buildinfo holds version details stamped into release binaries.
package buildinfo

// Set with -ldflags "-X github.com/aidanlsb/cps/internal/buildinfo.Version=..."
// by the release build. Empty in local builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
