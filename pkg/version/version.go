package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X docqa/pkg/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// resolved returns the version and commit, falling back to the module build
// info for binaries installed with go install.
func resolved() (string, string) {
	v, c := strings.TrimSpace(Version), strings.TrimSpace(Commit)
	if v != "" && v != "dev" {
		return v, c
	}
	v = "dev"
	info, ok := readBuildInfo()
	if !ok {
		return v, c
	}
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v = mv
	}
	if c == "" || c == "none" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				c = s.Value
			}
		}
	}
	return v, c
}

// Summary is the short form shown in the welcome box.
func Summary() string {
	v, c := resolved()
	if c == "" || c == "none" {
		return v
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

// Full is the multi-line form printed by -version.
func Full(name string) string {
	_, c := resolved()
	return fmt.Sprintf("%s %s\n  commit:   %s\n  built:    %s\n  go:       %s\n  platform: %s\n",
		name, Summary(), c, Date, GoVersion, Platform())
}
