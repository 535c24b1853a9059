package update

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type fakeSnapshotter struct {
	path    string
	version string
	err     error
}

func (f *fakeSnapshotter) Snapshot(binaryPath, version string) error {
	f.path = binaryPath
	f.version = version
	return f.err
}

func TestNewBinaryInstaller(t *testing.T) {
	installer := NewBinaryInstaller("/usr/local/bin/skylift", "1.0.0")

	if installer.currentPath != "/usr/local/bin/skylift" {
		t.Errorf("currentPath = %s, want /usr/local/bin/skylift", installer.currentPath)
	}

	expectedBackup := "/usr/local/bin/skylift.backup"
	if installer.backupPath != expectedBackup {
		t.Errorf("backupPath = %s, want %s", installer.backupPath, expectedBackup)
	}

	if installer.verify {
		t.Error("verify should default to false")
	}
}

func TestInstall_ReplacesBinary(t *testing.T) {
	tmpDir := t.TempDir()
	currentBinary := filepath.Join(tmpDir, "skylift")

	if err := os.WriteFile(currentBinary, []byte("old binary"), 0755); err != nil {
		t.Fatalf("Failed to create current binary: %v", err)
	}

	snapshots := &fakeSnapshotter{}
	installer := NewBinaryInstaller(currentBinary, "1.0.0").WithSnapshots(snapshots)

	if err := installer.Install(strings.NewReader("new binary")); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	content, err := os.ReadFile(currentBinary)
	if err != nil {
		t.Fatalf("Failed to read installed binary: %v", err)
	}
	if string(content) != "new binary" {
		t.Errorf("content = %q, want %q", content, "new binary")
	}

	if _, err := os.Stat(installer.backupPath); !os.IsNotExist(err) {
		t.Error("Backup should be removed after successful install")
	}

	if snapshots.path != currentBinary || snapshots.version != "1.0.0" {
		t.Errorf("snapshot = (%s, %s), want (%s, 1.0.0)", snapshots.path, snapshots.version, currentBinary)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(currentBinary)
		if err != nil {
			t.Fatalf("Failed to stat binary: %v", err)
		}
		if info.Mode().Perm()&0111 == 0 {
			t.Error("Binary should be executable")
		}
	}
}

func TestInstall_SnapshotFailureAborts(t *testing.T) {
	tmpDir := t.TempDir()
	currentBinary := filepath.Join(tmpDir, "skylift")

	if err := os.WriteFile(currentBinary, []byte("old binary"), 0755); err != nil {
		t.Fatalf("Failed to create current binary: %v", err)
	}

	installer := NewBinaryInstaller(currentBinary, "1.0.0").
		WithSnapshots(&fakeSnapshotter{err: errors.New("disk full")})

	if err := installer.Install(strings.NewReader("new binary")); err == nil {
		t.Fatal("Expected error when snapshot fails")
	}

	content, _ := os.ReadFile(currentBinary)
	if string(content) != "old binary" {
		t.Error("Binary should be untouched when snapshot fails")
	}
}

func TestInstall_VerificationFailsRollsBack(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	currentBinary := filepath.Join(tmpDir, "skylift")
	goodScript := "#!/bin/sh\nexit 0\n"
	badScript := "#!/bin/sh\nexit 1\n"

	if err := os.WriteFile(currentBinary, []byte(goodScript), 0755); err != nil {
		t.Fatalf("Failed to create current binary: %v", err)
	}

	installer := NewBinaryInstaller(currentBinary, "1.0.0").WithVerify(true)
	err := installer.Install(strings.NewReader(badScript))
	if err == nil {
		t.Fatal("Expected verification error")
	}
	if !strings.Contains(err.Error(), "verification") {
		t.Errorf("Error should mention verification, got: %v", err)
	}

	content, err := os.ReadFile(currentBinary)
	if err != nil {
		t.Fatalf("Failed to read binary: %v", err)
	}
	if string(content) != goodScript {
		t.Error("Original binary should be restored after failed verification")
	}
}

func TestInstall_VerificationSucceeds(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tmpDir := t.TempDir()
	currentBinary := filepath.Join(tmpDir, "skylift")
	newScript := `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "skylift version 0.9.0"
	exit 0
fi
exit 1
`
	if err := os.WriteFile(currentBinary, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("Failed to create current binary: %v", err)
	}

	installer := NewBinaryInstaller(currentBinary, "0.8.0").WithVerify(true)
	if err := installer.Install(strings.NewReader(newScript)); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	content, _ := os.ReadFile(currentBinary)
	if string(content) != newScript {
		t.Error("Binary was not replaced")
	}
}

func TestRollback_Success(t *testing.T) {
	tmpDir := t.TempDir()
	currentBinary := filepath.Join(tmpDir, "test-binary")
	originalContent := []byte("original")

	installer := NewBinaryInstaller(currentBinary, "1.0.0")

	if err := os.WriteFile(installer.backupPath, originalContent, 0755); err != nil {
		t.Fatalf("Failed to create backup: %v", err)
	}
	if err := os.WriteFile(currentBinary, []byte("broken"), 0755); err != nil {
		t.Fatalf("Failed to write bad binary: %v", err)
	}

	if err := installer.Rollback(); err != nil {
		t.Fatalf("Rollback() error = %v", err)
	}

	restoredContent, err := os.ReadFile(currentBinary)
	if err != nil {
		t.Fatalf("Failed to read restored binary: %v", err)
	}
	if string(restoredContent) != string(originalContent) {
		t.Errorf("Restored content mismatch")
	}

	if _, err := os.Stat(installer.backupPath); !os.IsNotExist(err) {
		t.Error("Backup should not exist after rollback")
	}
}

func TestRollback_NoBackup(t *testing.T) {
	tmpDir := t.TempDir()
	installer := NewBinaryInstaller(filepath.Join(tmpDir, "test-binary"), "1.0.0")

	if err := installer.Rollback(); err == nil {
		t.Error("Expected error when backup doesn't exist")
	}
}
