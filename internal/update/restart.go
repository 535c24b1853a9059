package update

import (
	"fmt"
	"os"
	"sync"
)

// ExecRestarter relaunches the current executable with the original
// arguments. It restarts at most once per process.
type ExecRestarter struct {
	once sync.Once
	err  error

	executable func() (string, error)
	args       []string
	env        []string
}

var _ Restarter = (*ExecRestarter)(nil)

// NewExecRestarter creates a restarter that reuses os.Args and os.Environ.
// The executable path is resolved now, since after the swap the running
// image only points at the replaced file.
func NewExecRestarter() *ExecRestarter {
	exe, err := os.Executable()
	return &ExecRestarter{
		executable: func() (string, error) { return exe, err },
		args:       os.Args,
		env:        os.Environ(),
	}
}

// Restart replaces the current process. On unix it does not return on
// success; on windows it starts the new process and exits.
func (r *ExecRestarter) Restart() error {
	r.once.Do(func() {
		exe, err := r.executable()
		if err != nil {
			r.err = fmt.Errorf("failed to get executable path: %w", err)
			return
		}
		r.err = restartPlatform(exe, r.args, r.env)
	})
	return r.err
}
