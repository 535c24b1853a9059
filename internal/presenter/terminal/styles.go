package terminal

import "github.com/charmbracelet/lipgloss"

var (
	accentColor  = lipgloss.Color("#7D56F4")
	dimColor     = lipgloss.Color("#6272A4")
	successColor = lipgloss.Color("#50FA7B")
	errorColor   = lipgloss.Color("#FF5555")
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(accentColor)
	statusStyle  = lipgloss.NewStyle().Bold(true)
	countStyle   = lipgloss.NewStyle().Foreground(dimColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	noticeStyle  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
)
