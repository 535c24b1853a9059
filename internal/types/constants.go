// Package types provides typed constants shared by the skylift configuration
// and command layers.
package types

import (
	"fmt"
	"strings"
)

// PresenterKind selects the surface that shows update progress.
type PresenterKind string

const (
	// PresenterAuto picks the best surface for the current environment.
	PresenterAuto PresenterKind = "auto"
	// PresenterPanel is the fyne desktop update panel.
	PresenterPanel PresenterKind = "panel"
	// PresenterDialog uses native message boxes.
	PresenterDialog PresenterKind = "dialog"
	// PresenterTerminal renders progress in the terminal.
	PresenterTerminal PresenterKind = "terminal"
	// PresenterLog only writes log lines.
	PresenterLog PresenterKind = "log"
	// PresenterNone discards all notifications.
	PresenterNone PresenterKind = "none"
)

// AllPresenterKinds returns all valid presenter kinds.
func AllPresenterKinds() []PresenterKind {
	return []PresenterKind{
		PresenterAuto,
		PresenterPanel,
		PresenterDialog,
		PresenterTerminal,
		PresenterLog,
		PresenterNone,
	}
}

// Validate checks if the PresenterKind is a valid value. Empty means auto.
func (k PresenterKind) Validate() error {
	switch k {
	case "", PresenterAuto, PresenterPanel, PresenterDialog, PresenterTerminal, PresenterLog, PresenterNone:
		return nil
	default:
		return fmt.Errorf("invalid presenter '%s' (must be one of %s)", k, joinKinds(AllPresenterKinds()))
	}
}

// String returns the string representation of the PresenterKind.
func (k PresenterKind) String() string {
	if k == "" {
		return string(PresenterAuto)
	}
	return string(k)
}

// IsGraphical returns true for surfaces that need a desktop session.
func (k PresenterKind) IsGraphical() bool {
	return k == PresenterPanel || k == PresenterDialog
}

// ParsePresenterKind parses a string into a PresenterKind.
// Returns an error if the string is not a valid presenter kind.
func ParsePresenterKind(s string) (PresenterKind, error) {
	k := PresenterKind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	if k == "" {
		return PresenterAuto, nil
	}
	return k, nil
}

func joinKinds(kinds []PresenterKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
