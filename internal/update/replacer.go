package update

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	goupdate "github.com/inconshreveable/go-update"
	log "github.com/sirupsen/logrus"
)

// Snapshotter keeps a copy of a binary before it is replaced
type Snapshotter interface {
	Snapshot(binaryPath, version string) error
}

// BinaryInstaller swaps the running binary with rollback support
type BinaryInstaller struct {
	currentPath    string
	backupPath     string
	currentVersion string
	verify         bool
	snapshots      Snapshotter
}

// NewBinaryInstaller creates a new binary installer for currentPath
func NewBinaryInstaller(currentPath, currentVersion string) *BinaryInstaller {
	return &BinaryInstaller{
		currentPath:    currentPath,
		backupPath:     currentPath + ".backup",
		currentVersion: currentVersion,
	}
}

// WithVerify runs the new binary with --version after the swap
func (r *BinaryInstaller) WithVerify(verify bool) *BinaryInstaller {
	r.verify = verify
	return r
}

// WithSnapshots stores a copy of the replaced binary before every install
func (r *BinaryInstaller) WithSnapshots(s Snapshotter) *BinaryInstaller {
	r.snapshots = s
	return r
}

// Install replaces the current binary with the contents of newBinary
func (r *BinaryInstaller) Install(newBinary io.Reader) error {
	// 1. Keep a copy of the binary we are about to replace
	if r.snapshots != nil {
		if err := r.snapshots.Snapshot(r.currentPath, r.currentVersion); err != nil {
			return fmt.Errorf("failed to snapshot current binary: %w", err)
		}
	}

	// 2. Swap the binary; the old one is kept at backupPath
	err := goupdate.Apply(newBinary, goupdate.Options{
		TargetPath:  r.currentPath,
		TargetMode:  0755,
		OldSavePath: r.backupPath,
	})
	if err != nil {
		if rerr := goupdate.RollbackError(err); rerr != nil {
			return fmt.Errorf("failed to replace binary: %w (rollback also failed: %v)", err, rerr)
		}
		return fmt.Errorf("failed to replace binary: %w", err)
	}

	// 3. Verify new binary works
	if r.verify {
		if err := r.verifyBinary(r.currentPath); err != nil {
			if rerr := r.Rollback(); rerr != nil {
				log.Errorf("rollback after failed verification: %v", rerr)
			}
			return fmt.Errorf("new binary verification failed: %w", err)
		}
	}

	// 4. Remove backup on success
	_ = os.Remove(r.backupPath)

	return nil
}

// Rollback restores the backup if update fails
func (r *BinaryInstaller) Rollback() error {
	// 1. Check if backup exists
	if _, err := os.Stat(r.backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", r.backupPath)
	}

	// 2. Restore from backup
	if err := os.Rename(r.backupPath, r.currentPath); err != nil {
		return fmt.Errorf("failed to restore from backup: %w", err)
	}

	// 3. Set permissions
	if err := os.Chmod(r.currentPath, 0755); err != nil {
		return fmt.Errorf("failed to set permissions on restored binary: %w", err)
	}

	return nil
}

// verifyBinary verifies a binary works by running --version
func (r *BinaryInstaller) verifyBinary(path string) error {
	cmd := exec.Command(path, "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("binary verification failed: %w", err)
	}
	return nil
}
