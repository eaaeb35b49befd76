// Package version reports the build identity of the pledge binary.
package version

import "fmt"

// These variables are set at build time via ldflags:
//
//	-X github.com/example/pledge/internal/version.Commit=$(git rev-parse HEAD)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns "pledge <version> (commit: <short>, built: <time>)".
func String() string {
	return fmt.Sprintf("pledge %s (commit: %s, built: %s)", Version, short(Commit), BuildTime)
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
