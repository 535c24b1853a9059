package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type phase int

const (
	phaseIdle phase = iota
	phaseChecking
	phaseDownloading
	phaseInstalling
)

// Messages sent to the model by Surface.
type (
	phaseMsg    phase
	progressMsg struct {
		percent      int
		downloadedMB float64
		totalMB      float64
	}
	// noticeMsg is printed above the live view and stays on screen.
	noticeMsg string
	quitMsg   struct{}
)

// model renders a spinner while checking or installing and a progress bar
// while downloading. An unknown size shows the spinner with a byte count.
type model struct {
	spinner  spinner.Model
	progress progress.Model

	phase        phase
	percent      int
	downloadedMB float64
	totalMB      float64
}

func newModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
	)

	return model{
		spinner:  s,
		progress: p,
		percent:  -1,
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case phaseMsg:
		m.phase = phase(msg)
		if m.phase == phaseDownloading {
			m.percent = -1
			m.downloadedMB = 0
			m.totalMB = 0
		}
		return m, nil

	case progressMsg:
		m.phase = phaseDownloading
		m.percent = msg.percent
		m.downloadedMB = msg.downloadedMB
		m.totalMB = msg.totalMB
		if msg.percent >= 0 {
			return m, m.progress.SetPercent(float64(msg.percent) / 100)
		}
		return m, nil

	case noticeMsg:
		return m, tea.Println(string(msg))

	case quitMsg:
		m.phase = phaseIdle
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	switch m.phase {
	case phaseChecking:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(statusStyle.Render("Checking for updates..."))
	case phaseDownloading:
		if m.percent >= 0 {
			b.WriteString(statusStyle.Render("Downloading update"))
			b.WriteString("\n")
			b.WriteString(m.progress.View())
			b.WriteString("\n")
			b.WriteString(countStyle.Render(fmt.Sprintf("%.1f / %.1f MB", m.downloadedMB, m.totalMB)))
		} else {
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
			b.WriteString(statusStyle.Render("Downloading update"))
			b.WriteString(" ")
			b.WriteString(countStyle.Render(fmt.Sprintf("%.1f MB", m.downloadedMB)))
		}
	case phaseInstalling:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(statusStyle.Render("Installing update..."))
	}

	return b.String()
}
