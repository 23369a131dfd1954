package app

// Build information populated via -ldflags at build time.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
	BuildDate    = "unknown"
)

func defaultUserAgent() string {
	return "profilecapture/" + BuildVersion
}

// DefaultUserAgent is the User-Agent sent when none is configured.
func DefaultUserAgent() string { return defaultUserAgent() }
