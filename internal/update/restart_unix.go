//go:build !windows

package update

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func restartPlatform(executable string, args, env []string) error {
	if err := unix.Exec(executable, args, env); err != nil {
		return fmt.Errorf("failed to exec %s: %w", executable, err)
	}
	return nil
}
