// Package buildinfo reports which reebsmooth build is running.
//
// Release builds stamp the variables through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/reebsmooth/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/reebsmooth/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/reebsmooth
//
// Unstamped builds fall back to the module version and VCS revision the Go
// toolchain embeds, when present.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped by -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info describes the running binary. It also feeds the cache key scope, so
// results computed by different releases never mix.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
	Go      string `json:"go"`
}

// Get returns the build description, filling unstamped fields from the
// embedded build information.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
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
		}
	}
	return info
}

// Template returns the cobra --version template.
func Template() string {
	info := Get()
	out := fmt.Sprintf("{{.Name}} %s (%s)\n", info.Version, info.Go)
	if info.Commit != "" {
		out += "commit " + info.Commit + "\n"
	}
	if info.Date != "" {
		out += "built  " + info.Date + "\n"
	}
	return out
}
