package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#7C3AED")
	muted   = lipgloss.Color("#6B7280")
	text    = lipgloss.Color("#E5E7EB")
	mint    = lipgloss.Color("#10B981")
	rose    = lipgloss.Color("#F43F5E")
	surface = lipgloss.Color("#1F2937")
)

type theme struct {
	header      lipgloss.Style
	panel       lipgloss.Style
	panelFocus  lipgloss.Style
	panelTitle  lipgloss.Style
	room        lipgloss.Style
	roomActive  lipgloss.Style
	roomCursor  lipgloss.Style
	unread      lipgloss.Style
	preview     lipgloss.Style
	sender      lipgloss.Style
	self        lipgloss.Style
	bubbleIn    lipgloss.Style
	bubbleOut   lipgloss.Style
	meta        lipgloss.Style
	failed      lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
}

func newTheme() theme {
	return theme{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(accent).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted),
		panelFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent),
		panelTitle:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		room:        lipgloss.NewStyle().Foreground(text),
		roomActive:  lipgloss.NewStyle().Foreground(text).Background(surface).Bold(true),
		roomCursor:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		unread:      lipgloss.NewStyle().Foreground(text).Background(rose).Padding(0, 1),
		preview:     lipgloss.NewStyle().Foreground(muted),
		sender:      lipgloss.NewStyle().Foreground(mint).Bold(true),
		self:        lipgloss.NewStyle().Foreground(accent).Bold(true),
		bubbleIn:    lipgloss.NewStyle().Foreground(text),
		bubbleOut:   lipgloss.NewStyle().Foreground(text).Align(lipgloss.Right),
		meta:        lipgloss.NewStyle().Foreground(muted).Italic(true),
		failed:      lipgloss.NewStyle().Foreground(rose),
		footer:      lipgloss.NewStyle().Foreground(muted),
		status:      lipgloss.NewStyle().Foreground(mint).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(rose).Bold(true),
	}
}
