// Package version holds build metadata stamped by the release pipeline
// through -ldflags "-X ...".
package version

import "fmt"

//nolint:revive // Overridden at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Human renders the build metadata as one display string.
func Human() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}
