package version

import "fmt"

// Set at build time with -ldflags "-X github.com/rmitchellscott/bannermaster/internal/version.Version=..."
var (
	Version   = "0.1.0"
	BuildTime = "development"
	GitCommit = "unknown"
)

func String() string {
	return fmt.Sprintf("bannermaster v%s (%s)", Version, GitCommit)
}

// Get returns the build metadata served by the version endpoint
func Get() map[string]string {
	return map[string]string{
		"name":      "bannermaster",
		"version":   Version,
		"buildTime": BuildTime,
		"gitCommit": GitCommit,
	}
}
