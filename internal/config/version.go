package config

import (
	"os"
	"runtime/debug"
	"strings"
)

// baseVersion is overridden at build time with -ldflags "-X forecastchart/internal/config.baseVersion=..."
var baseVersion = "0.1.0"

// GetVersion returns APP_VERSION when set, otherwise the base version with
// the VCS revision the binary was built from.
func GetVersion() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	if rev := vcsRevision(); rev != "" {
		return baseVersion + "+" + rev
	}
	return baseVersion
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var rev string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}
