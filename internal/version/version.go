// Package version exposes the build metadata stamped into release
// binaries via -ldflags; the zero values mark a local development build.
package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = ""
	Dirty   = "false"
)
