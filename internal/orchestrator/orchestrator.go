// Package orchestrator sequences an update check, download, install and
// restart, reporting each step to a presentation surface.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/adamancini/skylift/internal/presenter"
	"github.com/adamancini/skylift/internal/update"
)

// Client checks for and applies updates. update.Updater implements it.
type Client interface {
	// Check returns the newer release, nil when up to date.
	Check(ctx context.Context) (*update.Release, error)
	// DownloadAndInstall reports every received chunk to onChunk and calls
	// onFinish once the transfer completes, before installing.
	DownloadAndInstall(ctx context.Context, rel *update.Release, onChunk update.ChunkFunc, onFinish func()) error
}

// ClientFactory builds the update client for one check.
type ClientFactory func() (Client, error)

// Restarter relaunches the process once an update is installed.
type Restarter interface {
	Restart() error
}

// Options configures an Orchestrator.
type Options struct {
	// Version is the running application version shown when up to date.
	Version string
	// Args are the raw process arguments, consulted for SkipUpdateFlag.
	Args []string
	// Debug marks a debug build, which never checks on startup.
	Debug bool

	NewClient ClientFactory
	Surface   presenter.Surface
	Restarter Restarter
	Logger    log.FieldLogger
}

// Orchestrator drives the update lifecycle. It is safe to call from
// several goroutines; only one check runs at a time.
type Orchestrator struct {
	version   string
	args      []string
	debug     bool
	newClient ClientFactory
	surface   presenter.Surface
	restarter Restarter
	logger    log.FieldLogger

	running atomic.Bool
	mu      sync.Mutex
	state   State
}

// New creates an orchestrator. A nil Surface discards notifications and a
// nil Logger uses the standard logrus logger.
func New(opts Options) *Orchestrator {
	surface := opts.Surface
	if surface == nil {
		surface = presenter.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Orchestrator{
		version:   opts.Version,
		args:      opts.Args,
		debug:     opts.Debug,
		newClient: opts.NewClient,
		surface:   surface,
		restarter: opts.Restarter,
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) transition(to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !isValidTransition(o.state, to) {
		o.logger.Warnf("ignoring invalid state transition %s -> %s", o.state, to)
		return
	}
	o.logger.Debugf("state %s -> %s", o.state, to)
	o.state = to
}

// CheckOnStartup runs a silent check unless the build or the arguments ask
// to skip it. It returns true when startup should continue and false when an
// update was installed and a restart is underway.
func (o *Orchestrator) CheckOnStartup(ctx context.Context) (bool, error) {
	if o.debug {
		o.logger.Info("skipping update check (debug build)")
		return true, nil
	}
	if ShouldSkip(false, o.args) {
		o.logger.Infof("skipping update check (%s flag)", SkipUpdateFlag)
		return true, nil
	}
	return o.DoUpdateCheck(ctx, false)
}

// CheckForUpdates runs a user-requested check that also reports when the
// application is already up to date.
func (o *Orchestrator) CheckForUpdates(ctx context.Context) error {
	_, err := o.DoUpdateCheck(ctx, true)
	return err
}

// DoUpdateCheck checks for an update and, when one exists, downloads,
// installs and restarts. Failures of the check itself are reported to the
// surface (only when notifyIfUpToDate is set) and logged, and the call
// returns true. Failures after an update was found are returned.
func (o *Orchestrator) DoUpdateCheck(ctx context.Context, notifyIfUpToDate bool) (bool, error) {
	if !o.running.CompareAndSwap(false, true) {
		return false, ErrCheckInProgress
	}
	defer o.running.Store(false)

	if o.State() == StateRestarting {
		return false, ErrRestartPending
	}

	if o.newClient == nil {
		return false, newError(ErrClientInit, fmt.Errorf("no update client configured"))
	}
	client, err := o.newClient()
	if err != nil {
		return false, newError(ErrClientInit, err)
	}

	o.transition(StateChecking)
	o.surface.ShowChecking()
	o.logger.Info("checking for updates...")

	rel, err := client.Check(ctx)
	if err != nil {
		o.logger.Errorf("%v", newError(ErrQuery, err))
		o.transition(StateIdle)
		o.surface.DismissPanel()
		if notifyIfUpToDate {
			o.surface.ShowUpdateError(err.Error())
		}
		return true, nil
	}
	if rel == nil {
		o.logger.Info("no update available")
		o.transition(StateIdle)
		o.surface.DismissPanel()
		if notifyIfUpToDate {
			o.surface.ShowUpToDate(o.version)
		}
		return true, nil
	}

	current := rel.CurrentVersion
	if current == "" {
		current = o.version
	}
	o.logger.Infof("update available: %s -> %s", current, rel.Version)
	o.transition(StateUpdateFound)
	o.surface.DismissPanel()
	o.surface.ShowUpdateRequired(current, rel.Version)

	o.transition(StateDownloading)
	o.surface.ShowDownload()
	o.logger.Info("downloading update...")

	var progress Progress
	onChunk := func(chunkLength int, contentLength int64) {
		progress.Add(chunkLength, contentLength)
		percent := progress.Percent()
		o.surface.UpdateDownloadProgress(percent, progress.DownloadedMB(), progress.TotalMB())
		if progress.Known() {
			o.logger.Debugf("downloaded %.1f / %.1f MB (%d%%)", progress.DownloadedMB(), progress.TotalMB(), percent)
		} else {
			o.logger.Debugf("downloaded %.1f MB", progress.DownloadedMB())
		}
	}
	onFinish := func() {
		o.logger.Info("download complete, installing...")
		o.transition(StateInstalling)
		o.surface.ShowInstalling()
	}

	if err := client.DownloadAndInstall(ctx, rel, onChunk, onFinish); err != nil {
		o.transition(StateIdle)
		o.surface.DismissPanel()
		return false, newError(ErrDownloadInstall, err)
	}

	o.logger.Info("update installed, restarting...")
	o.transition(StateRestarting)
	o.surface.DismissPanel()

	if o.restarter == nil {
		return false, newError(ErrRestart, fmt.Errorf("no restarter configured"))
	}
	if err := o.restarter.Restart(); err != nil {
		return false, newError(ErrRestart, err)
	}
	return false, nil
}
