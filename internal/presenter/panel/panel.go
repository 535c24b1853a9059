// Package panel shows update progress in a small fyne window.
package panel

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/adamancini/skylift/internal/presenter"
)

// AppID identifies the fyne application.
const AppID = "io.skylift.updater"

// Surface implements presenter.Surface with a fyne window holding a status
// line and a progress bar. Up-to-date and error results open a dialog that
// the user dismisses.
type Surface struct {
	window   fyne.Window
	status   *widget.Label
	detail   *widget.Label
	bar      *widget.ProgressBar
	infinite *widget.ProgressBarInfinite

	// pending counts dialogs that are still open
	pending sync.WaitGroup
}

var _ presenter.Surface = (*Surface)(nil)

// Available reports whether a graphical session is likely present
func Available() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	case "linux", "freebsd", "openbsd", "netbsd":
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	default:
		return false
	}
}

// New builds the update window for a. The window stays hidden until the
// first notification.
func New(a fyne.App, title string) *Surface {
	s := &Surface{
		window:   a.NewWindow(title),
		status:   widget.NewLabel(""),
		detail:   widget.NewLabel(""),
		bar:      widget.NewProgressBar(),
		infinite: widget.NewProgressBarInfinite(),
	}
	s.status.TextStyle = fyne.TextStyle{Bold: true}
	s.bar.Hide()
	s.infinite.Hide()
	s.detail.Hide()

	s.window.SetContent(container.NewPadded(container.NewVBox(
		s.status,
		s.bar,
		s.infinite,
		s.detail,
	)))
	s.window.Resize(fyne.NewSize(360, 120))
	s.window.SetFixedSize(true)
	s.window.SetCloseIntercept(func() {
		// Closing would quit the app mid-update, hide instead.
		s.window.Hide()
	})
	return s
}

// Run creates the fyne application, runs fn on a separate goroutine and
// drives the fyne event loop on the calling goroutine until fn returns and
// every open dialog has been dismissed. It must be called from main.
func Run(title string, fn func(s *Surface) error) error {
	a := app.NewWithID(AppID)
	s := New(a, title)

	var err error
	go func() {
		err = fn(s)
		s.pending.Wait()
		fyne.Do(a.Quit)
	}()
	a.Run()
	return err
}

func (s *Surface) setStatus(text string, bar, infinite bool) {
	s.status.SetText(text)
	if bar {
		s.bar.Show()
	} else {
		s.bar.Hide()
	}
	if infinite {
		s.infinite.Show()
		s.infinite.Start()
	} else {
		s.infinite.Stop()
		s.infinite.Hide()
	}
}

func (s *Surface) ShowChecking() {
	fyne.Do(func() {
		s.setStatus("Checking for updates...", false, true)
		s.detail.Hide()
		s.window.Show()
	})
}

func (s *Surface) DismissPanel() {
	fyne.Do(func() {
		s.infinite.Stop()
		s.window.Hide()
	})
}

func (s *Surface) ShowDownload() {
	fyne.Do(func() {
		s.setStatus("Downloading update...", true, false)
		s.bar.SetValue(0)
		s.detail.SetText("")
		s.detail.Show()
		s.window.Show()
	})
}

func (s *Surface) UpdateDownloadProgress(percent int, downloadedMB, totalMB float64) {
	fyne.Do(func() {
		if percent == presenter.IndeterminatePercent {
			if s.bar.Visible() || !s.infinite.Visible() {
				s.setStatus(s.status.Text, false, true)
			}
			s.detail.SetText(fmt.Sprintf("%.1f MB", downloadedMB))
			return
		}
		if !s.bar.Visible() {
			s.setStatus(s.status.Text, true, false)
		}
		s.bar.SetValue(float64(percent) / 100)
		s.detail.SetText(fmt.Sprintf("%.1f / %.1f MB", downloadedMB, totalMB))
	})
}

func (s *Surface) ShowInstalling() {
	fyne.Do(func() {
		s.setStatus("Installing update...", false, true)
		s.detail.Hide()
		s.window.Show()
	})
}

func (s *Surface) ShowUpToDate(version string) {
	s.showDialog(func(w fyne.Window) dialog.Dialog {
		return dialog.NewInformation("You're up to date", fmt.Sprintf("Version %s is the latest version.", version), w)
	})
}

func (s *Surface) ShowUpdateRequired(current, latest string) {
	fyne.Do(func() {
		s.setStatus(fmt.Sprintf("Updating %s → %s", current, latest), false, true)
		s.window.Show()
	})
}

func (s *Surface) ShowUpdateError(message string) {
	s.showDialog(func(w fyne.Window) dialog.Dialog {
		return dialog.NewError(errors.New(message), w)
	})
}

func (s *Surface) showDialog(build func(w fyne.Window) dialog.Dialog) {
	s.pending.Add(1)
	fyne.Do(func() {
		d := build(s.window)
		d.SetOnClosed(func() {
			s.window.Hide()
			s.pending.Done()
		})
		s.setStatus("", false, false)
		s.window.Show()
		d.Show()
	})
}
