// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/kailas-cloud/tripagent/internal/version.Version=v0.3.0"
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
