// Package version reports the mecamatic build version.
package version

import "runtime/debug"

// Version is set at build time:
//
//	go build -ldflags "-X github.com/Lucasmercado101/mecamatic/pkg/version.Version=v0.2.0"
//
// When left empty, String falls back to the module version recorded by
// `go install`, then to "dev".
var Version = ""

// String returns the version to print for --version.
func String() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}
