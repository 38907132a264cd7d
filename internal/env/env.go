// Package env carries build-time metadata set via -ldflags.
package env

// Version, CommitHash and BuildTime are overridden at build time with:
//
//	go build -ldflags "-X github.com/otterflash/sdnav/internal/env.Version=... \
//	  -X github.com/otterflash/sdnav/internal/env.CommitHash=... \
//	  -X github.com/otterflash/sdnav/internal/env.BuildTime=..."
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)
