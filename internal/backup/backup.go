// Package backup keeps copies of replaced binaries so an update can be undone.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	goupdate "github.com/inconshreveable/go-update"
	log "github.com/sirupsen/logrus"
)

const metaFile = "meta.json"

// Backup describes a single binary snapshot.
type Backup struct {
	ID         string    `json:"id" yaml:"id"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Version    string    `json:"version" yaml:"version"`
	SourcePath string    `json:"source_path" yaml:"source_path"`
	Size       int64     `json:"size" yaml:"size"`
	Note       string    `json:"note,omitempty" yaml:"note,omitempty"`
}

// Manager handles backup operations.
type Manager struct {
	backupDir string
	keep      int
	now       func() time.Time
}

// NewManager creates a backup manager rooted in the user cache directory.
func NewManager() (*Manager, error) {
	backupDir, err := getBackupDir()
	if err != nil {
		return nil, err
	}
	return NewManagerWithDir(backupDir), nil
}

// NewManagerWithDir creates a backup manager with a custom directory.
func NewManagerWithDir(backupDir string) *Manager {
	return &Manager{
		backupDir: backupDir,
		keep:      DefaultKeepCount,
		now:       time.Now,
	}
}

// WithKeep sets how many snapshots Snapshot retains. Zero or less disables
// pruning.
func (m *Manager) WithKeep(keep int) *Manager {
	m.keep = keep
	return m
}

// getBackupDir returns the default backup directory path.
func getBackupDir() (string, error) {
	// Use XDG_CACHE_HOME or default to ~/.cache
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "skylift", "backups"), nil
}

// Snapshot copies binaryPath into a new backup and prunes old ones. It
// satisfies update.Snapshotter.
func (m *Manager) Snapshot(binaryPath, version string) error {
	bak, err := m.Create(binaryPath, version, "pre-update")
	if err != nil {
		return err
	}
	log.Debugf("saved backup %s of %s", bak.ID, binaryPath)

	if m.keep > 0 {
		if _, err := m.Prune(m.keep); err != nil {
			log.Warnf("failed to prune backups: %v", err)
		}
	}
	return nil
}

// Create copies the binary at binaryPath into a new backup.
func (m *Manager) Create(binaryPath, version, note string) (*Backup, error) {
	src, err := os.Open(binaryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open binary: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	id, dir, err := m.reserve(now)
	if err != nil {
		return nil, err
	}

	dst, err := os.OpenFile(filepath.Join(dir, filepath.Base(binaryPath)), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to copy binary: %w", err)
	}

	backup := &Backup{
		ID:         id,
		CreatedAt:  now,
		Version:    version,
		SourcePath: binaryPath,
		Size:       size,
		Note:       note,
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, metaFile), data, 0644); err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write backup metadata: %w", err)
	}

	return backup, nil
}

// reserve creates a fresh backup directory named after t, adding a numeric
// suffix when several backups share the same second.
func (m *Manager) reserve(t time.Time) (string, string, error) {
	base := t.Format("2006-01-02-150405")
	id := base
	for i := 1; ; i++ {
		dir := filepath.Join(m.backupDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("failed to create backup directory: %w", err)
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
}

// List returns all backups sorted by creation time (newest first).
func (m *Manager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Backup{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Backup{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		backup, err := m.loadBackup(entry.Name())
		if err != nil {
			log.Debugf("skipping %s: %v", entry.Name(), err)
			continue
		}
		backups = append(backups, *backup)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].ID > backups[j].ID
		}
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

// Get retrieves a backup by ID. Use "latest" to get the most recent backup.
func (m *Manager) Get(id string) (*Backup, error) {
	if id == "latest" {
		backups, err := m.List()
		if err != nil {
			return nil, err
		}
		if len(backups) == 0 {
			return nil, fmt.Errorf("no backups found")
		}
		id = backups[0].ID
	}
	return m.loadBackup(id)
}

// Restore writes the binary from backup id over target, or over the path
// the backup was taken from when target is empty.
func (m *Manager) Restore(id, target string) (*Backup, error) {
	backup, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = backup.SourcePath
	}

	f, err := os.Open(m.binaryPath(backup))
	if err != nil {
		return nil, fmt.Errorf("failed to open backup binary: %w", err)
	}
	defer f.Close()

	err = goupdate.Apply(f, goupdate.Options{
		TargetPath: target,
		TargetMode: 0755,
	})
	if err != nil {
		if rerr := goupdate.RollbackError(err); rerr != nil {
			return nil, fmt.Errorf("failed to restore %s: %w (rollback also failed: %v)", target, err, rerr)
		}
		return nil, fmt.Errorf("failed to restore %s: %w", target, err)
	}

	return backup, nil
}

// Delete removes a backup by ID.
func (m *Manager) Delete(id string) error {
	if id == "" || filepath.Base(id) != id {
		return fmt.Errorf("invalid backup id: %q", id)
	}
	path := filepath.Join(m.backupDir, id)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", id)
	}

	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	return nil
}

// loadBackup reads and parses a backup's metadata.
func (m *Manager) loadBackup(id string) (*Backup, error) {
	if id == "" || filepath.Base(id) != id {
		return nil, fmt.Errorf("invalid backup id: %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.backupDir, id, metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("backup not found: %s", id)
		}
		return nil, fmt.Errorf("failed to read backup metadata: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("failed to parse backup metadata: %w", err)
	}

	return &backup, nil
}

func (m *Manager) binaryPath(b *Backup) string {
	return filepath.Join(m.backupDir, b.ID, filepath.Base(b.SourcePath))
}

// BackupDir returns the backup directory path.
func (m *Manager) BackupDir() string {
	return m.backupDir
}
