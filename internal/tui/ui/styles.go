package ui

import (
	"github.com/charmbracelet/lipgloss"
	tint "github.com/lrstanley/bubbletint"
)

// Styles contains all the styles used in the TUI
type Styles struct {
	App lipgloss.Style

	// Tab bar
	TabBar      lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ViewTitle lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusHelp lipgloss.Style

	// Tracker state
	Working  lipgloss.Style
	OnBreak  lipgloss.Style
	Idle     lipgloss.Style
	Clock    lipgloss.Style
	Selected lipgloss.Style

	// History table
	DayLabel lipgloss.Style
	DayHours lipgloss.Style
	Bar      lipgloss.Style

	StatLabel lipgloss.Style
	StatValue lipgloss.Style

	Dialog lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Success lipgloss.Style
}

// NewStylesFromRegistry creates a Styles struct using colors from a bubbletint registry.
// Theme colors map onto UI roles:
// - Primary: Purple (tabs, titles)
// - Secondary: Cyan (keys, day labels)
// - Accent: BrightPurple (clocks, hours)
// - Muted: BrightBlack (inactive elements, labels)
func NewStylesFromRegistry(r *tint.Registry) Styles {
	primary := r.Purple()
	secondary := r.Cyan()
	accent := r.BrightPurple()
	muted := r.BrightBlack()
	success := r.Green()
	warning := r.Yellow()
	errorColor := r.Red()
	fg := r.Fg()
	bg := r.Bg()

	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		TabBar: lipgloss.NewStyle().
			MarginBottom(1).
			BorderBottom(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(muted),
		TabActive: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 2),

		ViewTitle: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true).
			MarginBottom(1),

		StatusBar: lipgloss.NewStyle().
			Foreground(fg).
			Background(bg).
			Padding(0, 1),
		StatusKey: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		StatusHelp: lipgloss.NewStyle().
			Foreground(muted),

		Working: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		OnBreak: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		Idle: lipgloss.NewStyle().
			Foreground(muted),
		Clock: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(muted).
			Bold(true),

		DayLabel: lipgloss.NewStyle().
			Foreground(secondary).
			Width(16),
		DayHours: lipgloss.NewStyle().
			Foreground(accent).
			Width(8).
			Align(lipgloss.Right),
		Bar: lipgloss.NewStyle().
			Foreground(primary),

		StatLabel: lipgloss.NewStyle().
			Foreground(muted).
			Width(20),
		StatValue: lipgloss.NewStyle().
			Foreground(fg).
			Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(1, 2).
			Width(50),

		Error: lipgloss.NewStyle().
			Foreground(errorColor),
		Warning: lipgloss.NewStyle().
			Foreground(warning),
		Success: lipgloss.NewStyle().
			Foreground(success),
	}
}
