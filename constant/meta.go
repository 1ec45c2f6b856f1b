// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Marquee is the canonical application identifier used for filesystem paths and CLI branding.
	Marquee = "marquee"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is sent with version checks.
	UserAgent = Marquee + "/" + Version
)

// Build metadata, set with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
