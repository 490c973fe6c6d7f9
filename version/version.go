package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time using -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info is the build information served by diagnostics and printed by
// --version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Get returns the build information, falling back to VCS settings recorded
// by the toolchain for values not set with -ldflags.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.Date == "" {
					info.Date = s.Value
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			}
		}
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// Short returns the version with the commit appended when known.
func (i Info) Short() string {
	if i.Commit == "" {
		return i.Version
	}
	if i.Dirty {
		return fmt.Sprintf("%s-%s-dirty", i.Version, i.Commit)
	}
	return fmt.Sprintf("%s-%s", i.Version, i.Commit)
}

// Stanza renders the multi-line block printed by --version.
func (i Info) Stanza(name string) string {
	commit, date := i.Commit, i.Date
	if commit == "" {
		commit = "none"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf(
		"%s Version: %s\nGit SHA: %s\nGo Version: %s\nGo OS/Arch: %s\nBuilt at: %s",
		name, i.Version, commit, i.GoVersion, i.Platform, date,
	)
}
