// Package version holds the relcut build version. Release builds set it
// via: go build -ldflags "-X github.com/relcut/relcut/internal/version.Version=1.2.3"
package version

// Version is the relcut version. Set at build time for releases.
var Version = "dev"

// GetVersion returns the version string for display.
func GetVersion() string {
	return Version
}
