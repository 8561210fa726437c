// SPDX-License-Identifier: MIT
//
// Package build carries build metadata injected at link time, e.g.:
//
//	go build -ldflags "-X pitchtutor/pkg/build.buildName=pitchtutor \
//	    -X pitchtutor/pkg/build.buildVersion=0.2.0"
//
// Fields left unset by the linker keep development defaults so the binary
// stays runnable from a plain `go run`.
package build

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// Populated by -ldflags during compilation.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string

	buildFlags = &ldFlags{
		Name:    "pitchtutor",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies linker-provided build information over the development
// defaults. Must run before GetBuildFlags is consulted.
func Initialize() {
	if buildName != "" {
		buildFlags.Name = buildName
	}
	if buildTime != "" {
		buildFlags.Time = buildTime
	}
	if buildCommit != "" {
		buildFlags.Commit = buildCommit
	}
	if buildVersion != "" {
		buildFlags.Version = buildVersion
	}
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
