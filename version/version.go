// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X github.com/bookvoice/bookvoice/version.GitRelease=..."
package version

import "runtime"

var (
	// GitRelease is the release tag or branch this binary was built from.
	GitRelease = "dev"

	// GitCommit is the commit hash this binary was built from.
	GitCommit = "unknown"

	// GitCommitDate is the commit date this binary was built from.
	GitCommitDate = "unknown"

	// GoInfo is the Go toolchain that built this binary.
	GoInfo = runtime.Version()
)
