// Package version holds build metadata injected at link time.
package version

import "fmt"

// Set via -ldflags "-X fittrack/internal/version.Version=..." at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a one-line human-readable version string.
func Info() string {
	return fmt.Sprintf("fittrack %s (commit %s, built %s)", Version, Commit, Date)
}
