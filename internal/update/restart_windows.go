//go:build windows

package update

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

func restartPlatform(executable string, args, env []string) error {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	cmd := exec.Command(executable, rest...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", executable, err)
	}
	os.Exit(0)
	return nil
}
