package update

import (
	"fmt"
	"runtime"
)

// Detect returns the current platform (OS and architecture)
func Detect() Platform {
	return Platform{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}
}

var targetArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "aarch64",
	"386":   "i686",
	"arm":   "armv7",
}

// Target returns the manifest platform key, e.g. "darwin-aarch64"
func (p Platform) Target() string {
	arch, ok := targetArch[p.Arch]
	if !ok {
		arch = p.Arch
	}
	return fmt.Sprintf("%s-%s", p.OS, arch)
}

// BinaryName returns the executable name for app on this platform
// e.g., "skylift" or "skylift.exe"
func (p Platform) BinaryName(app string) string {
	if p.OS == "windows" {
		return app + ".exe"
	}
	return app
}

// IsSupported returns true if this platform is supported
func (p Platform) IsSupported() bool {
	supportedPlatforms := map[string][]string{
		"darwin":  {"amd64", "arm64"},
		"linux":   {"amd64", "arm64"},
		"windows": {"amd64", "arm64"},
	}

	archs, ok := supportedPlatforms[p.OS]
	if !ok {
		return false
	}

	for _, arch := range archs {
		if p.Arch == arch {
			return true
		}
	}

	return false
}
