// Package misc keeps build time information about the program.
package misc

import (
	"runtime/debug"
	"strings"
)

const appName = "cardgen"

var (
	// set by linker flags in release builds
	version = ""
	gitHash = ""
)

// GetAppName returns application name.
func GetAppName() string {
	return appName
}

// GetVersion returns program version, if linker did not set it - module
// version from build info.
func GetVersion() string {
	if len(version) > 0 {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return strings.TrimPrefix(bi.Main.Version, "v")
	}
	return "dev"
}

// GetGitHash returns VCS revision the program was built from.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) > 0 {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return "unknown"
}

