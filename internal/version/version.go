// Package version reports the tea-presenter build version.
package version

import (
	"runtime"
	"runtime/debug"
)

// Version and Commit are set at build time with -ldflags "-X".
var (
	Version = "development"
	Commit  = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns the version, suffixed with the commit when known. A
// development build installed with go install reports its module version.
func String() string {
	v := Version
	if v == "development" {
		if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
	}
	if Commit != "unknown" {
		return v + "+" + Commit
	}
	return v
}

// Details returns key-value pairs describing the build, for logs and the
// version command.
func Details() []any {
	return []any{"version", String(), "go", runtime.Version(), "os", runtime.GOOS, "arch", runtime.GOARCH}
}
