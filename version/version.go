package version

import (
	"runtime/debug"
	"strings"
)

// ModulePath is the import path of the seqkit module.
const ModulePath = "github.com/kbukum/seqkit"

var (
	// Version is set at build time using -ldflags.
	Version   = "dev"
	GitCommit = ""
)

// Info describes the seqkit build in use.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	IsRelease bool   `json:"is_release"`
	IsDirty   bool   `json:"is_dirty"`
}

var readBuildInfo = debug.ReadBuildInfo

// Get returns the version information, preferring -ldflags values over the
// module build info.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}

	if bi, ok := readBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		if info.Version == "dev" {
			if mod := findModule(bi); mod != nil && mod.Version != "" && mod.Version != "(devel)" {
				info.Version = mod.Version
			}
		}
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = setting.Value[:min(7, len(setting.Value))]
				}
			case "vcs.modified":
				info.IsDirty = setting.Value == "true"
			}
		}
	}

	info.IsRelease = info.Version != "dev" && !info.IsDirty && !strings.Contains(info.Version, "dirty")
	return info
}

// String returns the version with the short commit appended, if known.
func (i Info) String() string {
	s := i.Version
	if i.GitCommit != "" {
		s += "-" + i.GitCommit
	}
	if i.IsDirty {
		s += "-dirty"
	}
	return s
}

// findModule returns seqkit's entry in bi, as the main module or a dependency.
func findModule(bi *debug.BuildInfo) *debug.Module {
	if bi.Main.Path == ModulePath {
		return &bi.Main
	}
	for _, dep := range bi.Deps {
		if dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace
		}
		return dep
	}
	return nil
}
