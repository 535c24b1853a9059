package update

import (
	"context"
	"io"
	"time"
)

// UnknownLength is reported as the content length when the server does not
// announce one.
const UnknownLength int64 = -1

// Asset describes the downloadable artifact for one target
type Asset struct {
	URL       string // Direct download URL for the artifact
	Signature string // Detached signature as published (carried, not verified)
	SHA256    string // Optional hex digest used as an integrity check
}

// Release describes an update that is newer than the running binary
type Release struct {
	CurrentVersion string    // Currently installed version
	Version        string    // Version offered by the manifest
	Notes          string    // Release notes/changelog
	PubDate        time.Time // Publication date, zero if absent
	Target         string    // Platform key the asset was selected for
	Asset          Asset
}

// Platform describes the current system platform
type Platform struct {
	OS   string // Operating system (darwin, linux, windows)
	Arch string // Architecture (amd64, arm64)
}

// ChunkFunc receives the size of every chunk written and the total length,
// which is UnknownLength when the server did not send one.
type ChunkFunc func(chunkLength int, contentLength int64)

// Checker checks for available updates. A nil release with a nil error means
// the running version is current.
type Checker interface {
	Check(ctx context.Context) (*Release, error)
}

// Downloader downloads and verifies artifacts
type Downloader interface {
	Download(ctx context.Context, url string, dst string, onChunk ChunkFunc) error
	VerifyChecksum(file, checksum string) error
}

// Installer swaps the running binary with rollback support
type Installer interface {
	Install(newBinary io.Reader) error
	Rollback() error
}

// Restarter relaunches the current process
type Restarter interface {
	Restart() error
}
