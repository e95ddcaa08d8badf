package version

import (
	"fmt"
	"runtime"
)

// Build metadata, overridden via -ldflags "-X .../internal/version.Version=..."
// (and Commit, Date) by the release build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns the full one-line version banner.
func Info() string {
	return fmt.Sprintf("nexus %s (commit: %s, built: %s, %s/%s)",
		Version, ShortCommit(), Date, runtime.GOOS, runtime.GOARCH)
}

// ShortCommit returns the commit hash truncated to 7 characters.
func ShortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
