package version

import "fmt"

// Build information, overridden via ldflags at release time, e.g.
//
//	go build -ldflags "-X github.com/ludo-technologies/cscan/internal/version.Version=1.2.0"
var (
	// Version is the current version of cscan
	Version = "dev"

	// Commit is the git commit hash
	Commit = "unknown"

	// Date is the build date
	Date = "unknown"

	// BuiltBy indicates how the binary was built
	BuiltBy = "source"
)

// GetVersion returns the current version
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// GetFullVersion returns the version with build metadata
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s)",
		Version, Commit, Date, BuiltBy)
}
