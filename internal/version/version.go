// Package version holds build-time identifying information for cgview,
// overridable via -ldflags at build time.
package version

var (
	// Version is cgview's semantic version.
	Version = "0.1.0"

	// BuildDate is set during build time (use -ldflags).
	BuildDate = "development"

	// GitCommit is set during build time (use -ldflags).
	GitCommit = "unknown"
)

// Info returns the bare version string.
func Info() string {
	return Version
}

// FullInfo returns version, commit, and build date together, as printed by
// the "version" CLI flag.
func FullInfo() string {
	return "cgview " + Version + " (commit: " + GitCommit + ", built: " + BuildDate + ")"
}
