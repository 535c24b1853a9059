// Package dialog reports update results with native message boxes.
//
// Message boxes must be opened from the main OS thread, so every box is
// queued to a manager goroutine that hops onto it with mainthread.Call. The
// calling program must therefore run inside mainthread.Run.
package dialog

import (
	"fmt"
	"sync"

	"github.com/faiface/mainthread"
	log "github.com/sirupsen/logrus"
	"github.com/sqweek/dialog"

	"github.com/adamancini/skylift/internal/presenter"
)

const queueSize = 16

type level int

const (
	levelInfo level = iota
	levelError
)

type message struct {
	level level
	title string
	text  string
}

// Surface implements presenter.Surface with native message boxes. Progress
// events are logged only.
type Surface struct {
	title string
	log   presenter.Surface

	queue     chan message
	done      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool

	// call runs fn on the main thread
	call func(fn func())
	// show opens a box and blocks until it is dismissed
	show func(m message)
}

var _ presenter.Surface = (*Surface)(nil)

// New starts the GUI manager goroutine. Call Close to wait for queued boxes
// to be dismissed.
func New(title string) *Surface {
	s := newSurface(title, mainthread.Call, showNative)
	go s.manage()
	return s
}

func newSurface(title string, call func(func()), show func(message)) *Surface {
	return &Surface{
		title: title,
		log:   presenter.NewLog(nil),
		queue: make(chan message, queueSize),
		done:  make(chan struct{}),
		call:  call,
		show:  show,
	}
}

func showNative(m message) {
	b := dialog.Message("%s", m.text).Title(m.title)
	switch m.level {
	case levelError:
		b.Error()
	default:
		b.Info()
	}
}

func (s *Surface) manage() {
	defer close(s.done)
	for m := range s.queue {
		s.call(func() { s.show(m) })
	}
	log.Debug("dialog manager stopped")
}

func (s *Surface) enqueue(m message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- m:
	default:
		log.Warnf("dialog queue full, dropping %q", m.text)
	}
}

// Close stops accepting boxes and waits until the queued ones are dismissed.
func (s *Surface) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.queue)
		s.mu.Unlock()
	})
	<-s.done
}

func (s *Surface) ShowChecking() { s.log.ShowChecking() }
func (s *Surface) DismissPanel() { s.log.DismissPanel() }
func (s *Surface) ShowDownload() { s.log.ShowDownload() }

func (s *Surface) UpdateDownloadProgress(percent int, downloadedMB, totalMB float64) {
	s.log.UpdateDownloadProgress(percent, downloadedMB, totalMB)
}

func (s *Surface) ShowInstalling() { s.log.ShowInstalling() }

func (s *Surface) ShowUpToDate(version string) {
	s.enqueue(message{
		level: levelInfo,
		title: s.title,
		text:  fmt.Sprintf("You're up to date.\n\nVersion %s is the latest version.", version),
	})
}

func (s *Surface) ShowUpdateRequired(current, latest string) {
	s.enqueue(message{
		level: levelInfo,
		title: s.title,
		text:  fmt.Sprintf("A new version is available (%s → %s).\n\nThe update will be downloaded and the application restarted.", current, latest),
	})
}

func (s *Surface) ShowUpdateError(msg string) {
	s.enqueue(message{
		level: levelError,
		title: s.title,
		text:  fmt.Sprintf("Unable to check for updates.\n\n%s", msg),
	})
}
