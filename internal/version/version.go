// Package version reports the build version of repofind.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with
//
//	go build -ldflags="-X repofind/internal/version.Version=v1.2.3 -X repofind/internal/version.Commit=abc123"
//
// Unset values are read from the module and VCS build info.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo()
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func populateFromBuildInfo() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	var revision string
	var modified bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if Commit == "" && revision != "" {
		Commit = revision[:min(len(revision), 7)]
		if modified {
			Commit += "-dirty"
		}
	}
}

// Full returns the version string including the commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
