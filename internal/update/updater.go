package update

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Updater combines a checker, downloader and installer into the client the
// orchestrator drives.
type Updater struct {
	checker    Checker
	downloader Downloader
	installer  Installer
	binaryName string
	tempDir    string
}

// NewUpdater creates an updater. binaryName is the executable name looked up
// inside archive artifacts.
func NewUpdater(checker Checker, downloader Downloader, installer Installer, binaryName string) *Updater {
	return &Updater{
		checker:    checker,
		downloader: downloader,
		installer:  installer,
		binaryName: binaryName,
	}
}

// WithTempDir sets the parent directory for download scratch space
func (u *Updater) WithTempDir(dir string) *Updater {
	u.tempDir = dir
	return u
}

// TempDir returns the parent directory for download scratch space, empty
// for the system default
func (u *Updater) TempDir() string {
	return u.tempDir
}

// Check reports the newer release, or nil when up to date
func (u *Updater) Check(ctx context.Context) (*Release, error) {
	return u.checker.Check(ctx)
}

// DownloadAndInstall fetches rel's artifact, reporting progress through
// onChunk, calls onFinish once the transfer is complete, then installs it.
func (u *Updater) DownloadAndInstall(ctx context.Context, rel *Release, onChunk ChunkFunc, onFinish func()) error {
	if rel == nil {
		return fmt.Errorf("no release to install")
	}

	tmpDir, err := os.MkdirTemp(u.tempDir, "skylift-update-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			log.Warnf("failed to remove %s: %v", tmpDir, err)
		}
	}()

	artifact := filepath.Join(tmpDir, ArtifactName(rel.Asset.URL))
	if err := u.downloader.Download(ctx, rel.Asset.URL, artifact, onChunk); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	if rel.Asset.SHA256 != "" {
		if err := u.downloader.VerifyChecksum(artifact, rel.Asset.SHA256); err != nil {
			return fmt.Errorf("checksum verification failed: %w", err)
		}
	}

	if onFinish != nil {
		onFinish()
	}

	binary, err := ExtractBinary(artifact, u.binaryName)
	if err != nil {
		return fmt.Errorf("failed to unpack artifact: %w", err)
	}
	defer func() { _ = binary.Close() }()

	if err := u.installer.Install(binary); err != nil {
		return fmt.Errorf("installation failed: %w", err)
	}

	log.Infof("installed version %s", rel.Version)
	return nil
}
