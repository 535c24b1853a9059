package cmd

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ExitError carries the exit status of the launched application.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("application exited with status %d", e.Code)
}

// launchApp runs command with extra args appended, passing stdio through.
// Without a command there is nothing to launch.
func launchApp(cmd *cobra.Command, command, args []string) error {
	if len(command) == 0 {
		log.Debug("no launch command configured")
		return nil
	}

	argv := append(slices.Clone(command[1:]), args...)
	app := exec.CommandContext(cmd.Context(), command[0], argv...)
	app.Stdin = cmd.InOrStdin()
	app.Stdout = cmd.OutOrStdout()
	app.Stderr = cmd.ErrOrStderr()

	log.Infof("launching %s", strings.Join(app.Args, " "))
	if err := app.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to launch %s: %w", command[0], err)
	}
	return nil
}
