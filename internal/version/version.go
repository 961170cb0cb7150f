// Package version carries build metadata stamped in with -ldflags.
package version

var (
	// Version is the semantic version.
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the short commit hash of the build.
	GitCommit = "unknown"
)

// String returns the version, with the commit hash when one was stamped in.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
