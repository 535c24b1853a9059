package orchestrator

import "errors"

// Error kinds. Match them with errors.Is against a returned *Error.
var (
	// ErrClientInit means the update client could not be constructed.
	ErrClientInit = errors.New("failed to initialize update client")
	// ErrQuery means the manifest check failed. It is reported to the
	// surface and logged but never returned by DoUpdateCheck.
	ErrQuery = errors.New("update check failed")
	// ErrDownloadInstall means the update was found but could not be
	// downloaded or installed.
	ErrDownloadInstall = errors.New("failed to download and install update")
	// ErrRestart means the update was installed but the relaunch failed.
	ErrRestart = errors.New("failed to restart after update")

	// ErrCheckInProgress is returned when a check is started while another
	// one has not finished.
	ErrCheckInProgress = errors.New("update check already in progress")
	// ErrRestartPending is returned when a check is started after an update
	// has been installed and a restart was requested.
	ErrRestartPending = errors.New("update installed, restart pending")
)

// Error pairs an error kind with the underlying cause.
type Error struct {
	Kind error
	Err  error
}

func newError(kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
