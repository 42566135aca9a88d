// Package version exposes the carboncalc build version.
package version

// Version is the semantic version of the carboncalc binary.
// It is overridden at build time via:
//
//	go build -ldflags "-X github.com/aureliashabi/A21-Carbon-Calculator/pkg/version.Version=v1.2.3"
//
//nolint:gochecknoglobals // Set once by the linker, read-only afterwards.
var Version = "0.1.0-dev"

// GetVersion returns the current build version string.
func GetVersion() string {
	return Version
}
