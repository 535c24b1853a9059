package backup

import (
	"testing"
)

func TestManager_Prune(t *testing.T) {
	tests := []struct {
		name        string
		create      int
		keep        int
		wantKept    int
		wantDeleted int
	}{
		{name: "prune to two", create: 5, keep: 2, wantKept: 2, wantDeleted: 3},
		{name: "nothing to prune", create: 2, keep: 5, wantKept: 2, wantDeleted: 0},
		{name: "keep zero", create: 3, keep: 0, wantKept: 0, wantDeleted: 3},
		{name: "empty", create: 0, keep: 1, wantKept: 0, wantDeleted: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, binary := newTestManager(t)
			for i := 0; i < tt.create; i++ {
				if _, err := manager.Create(binary, "1.0.0", ""); err != nil {
					t.Fatalf("Create() error = %v", err)
				}
			}

			result, err := manager.Prune(tt.keep)
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if result.Kept != tt.wantKept {
				t.Errorf("Prune() Kept = %v, want %v", result.Kept, tt.wantKept)
			}
			if len(result.Deleted) != tt.wantDeleted {
				t.Errorf("Prune() Deleted = %v, want %v", len(result.Deleted), tt.wantDeleted)
			}
			if result.Freed != int64(tt.wantDeleted*len("binary v1.0.0")) {
				t.Errorf("Prune() Freed = %v", result.Freed)
			}

			backups, err := manager.List()
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(backups) != tt.wantKept {
				t.Errorf("List() after prune = %v, want %v", len(backups), tt.wantKept)
			}
		})
	}
}

func TestManager_PruneKeepsNewest(t *testing.T) {
	manager, binary := newTestManager(t)
	for _, v := range []string{"1.0.0", "1.1.0", "1.2.0"} {
		if _, err := manager.Create(binary, v, ""); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	if _, err := manager.Prune(1); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	backups, _ := manager.List()
	if len(backups) != 1 || backups[0].Version != "1.2.0" {
		t.Errorf("Prune() kept %+v, want 1.2.0", backups)
	}
}

func TestManager_PruneNegative(t *testing.T) {
	manager, _ := newTestManager(t)

	if _, err := manager.Prune(-1); err == nil {
		t.Error("Prune(-1) expected error")
	}
}

func TestManager_SnapshotPrunes(t *testing.T) {
	manager, binary := newTestManager(t)
	manager.WithKeep(2)

	for i := 0; i < 4; i++ {
		if err := manager.Snapshot(binary, "1.0.0"); err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}
	}

	backups, err := manager.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("Snapshot() left %d backups, want 2", len(backups))
	}
	if backups[0].Note != "pre-update" {
		t.Errorf("Snapshot() Note = %q", backups[0].Note)
	}
}
