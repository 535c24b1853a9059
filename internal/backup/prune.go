package backup

import (
	"fmt"
)

// DefaultKeepCount is the number of binary snapshots kept after an update.
const DefaultKeepCount = 5

// PruneResult contains information about what was pruned.
type PruneResult struct {
	Deleted []Backup `json:"deleted" yaml:"deleted"`
	Kept    int      `json:"kept" yaml:"kept"`
	// Freed is the combined size of the deleted binaries in bytes.
	Freed int64 `json:"freed" yaml:"freed"`
}

// Prune deletes everything but the newest keep snapshots.
func (m *Manager) Prune(keep int) (*PruneResult, error) {
	if keep < 0 {
		return nil, fmt.Errorf("keep count must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return nil, err
	}

	result := &PruneResult{Kept: min(keep, len(backups))}
	if len(backups) <= keep {
		return result, nil
	}

	for _, b := range backups[keep:] {
		if err := m.Delete(b.ID); err != nil {
			return result, fmt.Errorf("failed to delete backup %s: %w", b.ID, err)
		}
		result.Deleted = append(result.Deleted, b)
		result.Freed += b.Size
	}

	return result, nil
}
