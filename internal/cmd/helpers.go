package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/faiface/mainthread"
	log "github.com/sirupsen/logrus"

	"github.com/adamancini/skylift/internal/backup"
	"github.com/adamancini/skylift/internal/buildinfo"
	"github.com/adamancini/skylift/internal/config"
	"github.com/adamancini/skylift/internal/logging"
	"github.com/adamancini/skylift/internal/orchestrator"
	"github.com/adamancini/skylift/internal/presenter"
	"github.com/adamancini/skylift/internal/presenter/dialog"
	"github.com/adamancini/skylift/internal/presenter/panel"
	"github.com/adamancini/skylift/internal/presenter/terminal"
	"github.com/adamancini/skylift/internal/types"
	"github.com/adamancini/skylift/internal/update"
)

const (
	appName     = "skylift"
	windowTitle = "Skylift Updater"
)

// executablePath returns the resolved path of the running binary.
func executablePath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get current binary path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve binary path: %w", err)
	}
	return exe, nil
}

// newChecker builds the manifest checker described by cfg.
func newChecker(cfg *config.Config) (*update.ManifestChecker, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("no update endpoints configured (set endpoints in the config file or %s)", config.EnvEndpoint)
	}

	checker := update.NewManifestChecker(buildinfo.Version(), cfg.Endpoints).
		WithHeaders(cfg.Headers).
		WithTimeout(cfg.Timeout.Std())

	if cfg.Target != "" {
		checker = checker.WithTarget(cfg.Target)
	} else if platform := update.Detect(); !platform.IsSupported() {
		return nil, fmt.Errorf("unsupported platform: %s/%s (set target in the config file)", platform.OS, platform.Arch)
	}
	return checker, nil
}

// newUpdater wires the checker, downloader and installer for the running
// binary.
func newUpdater(cfg *config.Config) (*update.Updater, error) {
	checker, err := newChecker(cfg)
	if err != nil {
		return nil, err
	}

	exe, err := executablePath()
	if err != nil {
		return nil, err
	}

	installer := update.NewBinaryInstaller(exe, buildinfo.Version()).
		WithVerify(cfg.Install.Verify)
	if cfg.Install.KeepBackups > 0 {
		manager, err := backup.NewManager()
		if err != nil {
			return nil, err
		}
		installer = installer.WithSnapshots(manager.WithKeep(cfg.Install.KeepBackups))
	}

	downloader := update.NewHTTPDownloader(buildinfo.Version())
	binary := update.Detect().BinaryName(appName)

	// Unpack next to the binary so the swap never crosses filesystems.
	return update.NewUpdater(checker, downloader, installer, binary).
		WithTempDir(filepath.Dir(exe)), nil
}

// processArgs returns the raw process arguments, plus the skip flag when it
// was given to a command parsed from somewhere other than os.Args.
func processArgs() []string {
	args := os.Args
	if skipUpdate && !slices.Contains(args, orchestrator.SkipUpdateFlag) {
		args = append(slices.Clone(args), orchestrator.SkipUpdateFlag)
	}
	return args
}

// newOrchestrator creates the orchestrator for one command run.
func newOrchestrator(cfg *config.Config, surface presenter.Surface, restarter orchestrator.Restarter) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Options{
		Version: buildinfo.Version(),
		Args:    processArgs(),
		Debug:   buildinfo.IsDebug(),
		NewClient: func() (orchestrator.Client, error) {
			return newUpdater(cfg)
		},
		Surface:   surface,
		Restarter: restarter,
	})
}

// resolvePresenter turns auto into a concrete surface kind
func resolvePresenter(kind types.PresenterKind) types.PresenterKind {
	if kind != types.PresenterAuto && kind != "" {
		return kind
	}
	switch {
	case terminal.IsTerminal(os.Stderr):
		return types.PresenterTerminal
	case panel.Available():
		return types.PresenterPanel
	default:
		return types.PresenterLog
	}
}

// closingRestarter shuts a surface down before handing over to the next
// process image.
type closingRestarter struct {
	close func()
	next  orchestrator.Restarter
}

func (r closingRestarter) Restart() error {
	if r.close != nil {
		r.close()
	}
	return r.next.Restart()
}

// withSurface runs fn with the surface selected by kind. Graphical surfaces
// take over the calling goroutine, which must be the main one, and run fn
// on another.
func withSurface(cfg *config.Config, kind types.PresenterKind, fn func(presenter.Surface, orchestrator.Restarter) error) error {
	restarter := update.NewExecRestarter()

	// A log file records the surface events alongside the chosen surface.
	decorate := func(s presenter.Surface) presenter.Surface {
		if cfg.Log.File == "" || cfg.Log.File == logging.ConsoleOutput {
			return s
		}
		return presenter.NewMulti(s, presenter.NewLog(nil))
	}

	kind = resolvePresenter(kind)
	if kind.IsGraphical() && !panel.Available() {
		log.Warnf("no display available for the %s presenter, using log", kind)
		kind = types.PresenterLog
	}
	log.Debugf("using %s presenter", kind)

	switch kind {
	case types.PresenterNone:
		return fn(presenter.Nop{}, restarter)

	case types.PresenterLog:
		return fn(presenter.NewLog(nil), restarter)

	case types.PresenterTerminal:
		s := terminal.New(os.Stderr)
		defer s.Close()
		return fn(decorate(s), closingRestarter{close: s.Close, next: restarter})

	case types.PresenterDialog:
		var err error
		mainthread.Run(func() {
			s := dialog.New(windowTitle)
			err = fn(s, restarter)
			s.Close()
		})
		return err

	case types.PresenterPanel:
		return panel.Run(windowTitle, func(s *panel.Surface) error {
			return fn(decorate(s), restarter)
		})

	default:
		return fmt.Errorf("unknown presenter: %s", kind)
	}
}
