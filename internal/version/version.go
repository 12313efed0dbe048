// Package version holds build metadata stamped in by the release build.
package version

import "fmt"

// Set via -ldflags "-X github.com/open-cli-collective/pak13/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the version line printed by pak13 --version.
func String() string {
	return fmt.Sprintf("pak13 version %s (commit: %s, built: %s)", Version, Commit, Date)
}
