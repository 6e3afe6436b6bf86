package version

import "fmt"

// values are set via ldflags on release builds
//
//nolint:gochecknoglobals // set by linker
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "devbuild"

	FullVersion = fmt.Sprintf("%s (%s %s %s)", Version, Commit, Date, BuiltBy)
)
