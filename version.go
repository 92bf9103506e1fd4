package glosa

import (
	"runtime"
	"runtime/debug"
)

// Release metadata. Version and the build variables below may be set with
//
//	go build -ldflags "-X github.com/ZaguanLabs/glosa.GitCommit=$(git rev-parse HEAD)"
const (
	Name        = "glosa"
	Description = "Dictionary-driven translation of string literals and comments in source code"
	Version     = "0.1.0"
	Repository  = "https://github.com/ZaguanLabs/glosa"
	License     = "MIT"
)

// Build variables, empty unless stamped by the linker.
var (
	GitCommit string
	BuildDate string
)

// BuildDetails describes the running binary.
type BuildDetails struct {
	Version   string
	Commit    string
	Modified  bool
	BuildDate string
	GoVersion string
}

// ReadBuildDetails merges linker-stamped values with the VCS settings the Go
// toolchain embeds. Stamped values take precedence.
func ReadBuildDetails() BuildDetails {
	d := BuildDetails{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return d
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if d.Commit == "" {
				d.Commit = s.Value
			}
		case "vcs.time":
			if d.BuildDate == "" {
				d.BuildDate = s.Value
			}
		case "vcs.modified":
			d.Modified = s.Value == "true"
		}
	}
	return d
}

// FullVersion is Version with a short commit suffix when one is known,
// e.g. "0.1.0+1a2b3c4" or "0.1.0+1a2b3c4.dirty".
func FullVersion() string {
	d := ReadBuildDetails()
	if d.Commit == "" {
		return d.Version
	}

	commit := d.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	v := d.Version + "+" + commit
	if d.Modified {
		v += ".dirty"
	}
	return v
}

// UserAgent identifies glosa to external services such as the term store.
func UserAgent() string {
	return Name + "/" + Version
}
