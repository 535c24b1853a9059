// Package buildinfo carries version metadata and the build mode.
package buildinfo

import "fmt"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Set records the values injected into main via -ldflags.
func Set(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// Version returns the application version.
func Version() string {
	return version
}

// Commit returns the VCS revision the binary was built from.
func Commit() string {
	return commit
}

// Date returns the build date.
func Date() string {
	return date
}

// IsDebug reports whether this is a debug build (-tags debug).
func IsDebug() bool {
	return debugBuild
}

// String returns a one-line description used by `skylift version`.
func String() string {
	mode := "release"
	if debugBuild {
		mode = "debug"
	}
	return fmt.Sprintf("skylift %s (commit %s, built %s, %s)", version, commit, date, mode)
}
