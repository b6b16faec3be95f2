package version

import "fmt"

// Version is set via build-time ldflags:
// go build -ldflags "-X git.home.luguber.info/inful/exbuilder/internal/version.Version=v1.0.0".
var Version = "dev"

// Build metadata, also ldflags-injected.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Full returns the version with commit and build time when they are known.
func Full() string {
	if GitCommit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s, built %s)", Version, GitCommit, BuildTime)
}
