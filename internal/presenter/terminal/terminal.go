// Package terminal shows update progress in a terminal, either as a live
// bubbletea view or as plain lines when the output is not a TTY.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/adamancini/skylift/internal/presenter"
)

const stopTimeout = 500 * time.Millisecond

// Surface implements presenter.Surface for terminals.
type Surface struct {
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	stopped bool

	plain *plainWriter
}

var _ presenter.Surface = (*Surface)(nil)

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// New creates a terminal surface writing to w. Interactive rendering is
// used only when w is a terminal. Call Close when done.
func New(w io.Writer) *Surface {
	if !IsTerminal(w) {
		return NewPlain(w)
	}

	program := tea.NewProgram(
		newModel(),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s := &Surface{
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(s.done)
	}()
	return s
}

// NewPlain creates a surface that writes one line per notable event.
func NewPlain(w io.Writer) *Surface {
	return &Surface{plain: newPlainWriter(w)}
}

func (s *Surface) send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.program.Send(msg)
}

// Close stops the live view. It is safe to call more than once.
func (s *Surface) Close() {
	if s.plain != nil {
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.program.Send(quitMsg{})
	select {
	case <-s.done:
	case <-time.After(stopTimeout):
		s.program.Kill()
	}
}

func (s *Surface) ShowChecking() {
	if s.plain != nil {
		s.plain.line("Checking for updates...")
		return
	}
	s.send(phaseMsg(phaseChecking))
}

func (s *Surface) DismissPanel() {
	if s.plain != nil {
		return
	}
	s.send(phaseMsg(phaseIdle))
}

func (s *Surface) ShowDownload() {
	if s.plain != nil {
		s.plain.startDownload()
		return
	}
	s.send(phaseMsg(phaseDownloading))
}

func (s *Surface) UpdateDownloadProgress(percent int, downloadedMB, totalMB float64) {
	if s.plain != nil {
		s.plain.progress(percent, downloadedMB, totalMB)
		return
	}
	s.send(progressMsg{percent: percent, downloadedMB: downloadedMB, totalMB: totalMB})
}

func (s *Surface) ShowInstalling() {
	if s.plain != nil {
		s.plain.line("Installing update...")
		return
	}
	s.send(phaseMsg(phaseInstalling))
}

func (s *Surface) ShowUpToDate(version string) {
	s.notice(successStyle, fmt.Sprintf("✓ You're up to date (version %s)", version))
}

func (s *Surface) ShowUpdateRequired(current, latest string) {
	s.notice(noticeStyle, fmt.Sprintf("Update available: %s → %s", current, latest))
}

func (s *Surface) ShowUpdateError(message string) {
	s.notice(errorStyle, fmt.Sprintf("✗ Update check failed: %s", message))
}

type renderer interface {
	Render(strs ...string) string
}

func (s *Surface) notice(style renderer, text string) {
	if s.plain != nil {
		s.plain.line(text)
		return
	}
	s.send(noticeMsg(style.Render(text)))
}

// plainWriter prints progress at most once per 10% step, or once per
// megabyte when the size is unknown.
type plainWriter struct {
	mu       sync.Mutex
	w        io.Writer
	lastStep int
}

func newPlainWriter(w io.Writer) *plainWriter {
	return &plainWriter{w: w, lastStep: -1}
}

func (p *plainWriter) line(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.w, text)
}

func (p *plainWriter) startDownload() {
	p.mu.Lock()
	p.lastStep = -1
	p.mu.Unlock()
	p.line("Downloading update...")
}

func (p *plainWriter) progress(percent int, downloadedMB, totalMB float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var step int
	var text string
	if percent == presenter.IndeterminatePercent {
		step = int(downloadedMB)
		text = fmt.Sprintf("  %.1f MB", downloadedMB)
	} else {
		step = percent / 10
		text = fmt.Sprintf("  %3d%% (%.1f / %.1f MB)", percent, downloadedMB, totalMB)
	}
	if step == p.lastStep {
		return
	}
	p.lastStep = step
	_, _ = fmt.Fprintln(p.w, text)
}
