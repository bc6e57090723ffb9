package version

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is the generator's current released version.
// This value can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/autonotes/autonotes/internal/version.Version=1.2.0"
var Version = "0.0.0-dev"

// GitCommit is the git commit hash at build time.
// Set via ldflags: -X github.com/autonotes/autonotes/internal/version.GitCommit=$(git rev-parse HEAD)
var GitCommit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// String returns the full version identifier for logs and --version.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, GitCommit)
}

// IsRelease reports whether the running binary is a tagged release build
// rather than a dev or pre-release one.
func IsRelease() bool {
	v := "v" + Version
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}
