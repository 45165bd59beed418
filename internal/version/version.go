// Package version carries build metadata for plotctl. The variables are set
// at link time:
//
//	go build -ldflags "-X github.com/banshee-data/gpuplot/internal/version.Version=v0.3.0"
package version

import "fmt"

var (
	Version   = "dev"
	GitSHA    = "unknown"
	BuildTime = "unknown"
)

// String formats the build metadata for the version command.
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, GitSHA, BuildTime)
}
