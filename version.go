package tagver

// Build-time metadata, overridden via -ldflags by goreleaser.
var (
	name    = "tagver"
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)
