// Package version reports which build of repototext is running. The release
// script stamps the variables below; a plain `go build` leaves the defaults.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped with -ldflags "-X repototext/pkg/version.Version=... -X ...Commit=... -X ...BuildTime=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes one build.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get collects the stamped values. When the binary was not stamped, the
// commit and time recorded by the Go toolchain's VCS stamping are used.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildTime == "":
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

// String is the `repototext version` line, for example
// "repototext 0.3.0 (a1b2c3d, 2026-10-19T08:30:05Z) go1.24.2 linux/amd64".
func (i Info) String() string {
	commit := i.GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit == "" {
		commit = "unknown commit"
	}
	built := i.BuildTime
	if built == "" {
		built = "unknown time"
	}
	return fmt.Sprintf("repototext %s (%s, %s) %s %s", i.Version, commit, built, i.GoVersion, i.Platform)
}
