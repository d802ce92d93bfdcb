package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/tui/ui"
)

// maxVisibleThemes is the maximum number of themes to show at once
const maxVisibleThemes = 10

// ConfigModel is the model for the config view
type ConfigModel struct {
	session *Session
	styles  ui.Styles
	keys    ui.KeyMap

	width       int
	height      int
	config      config.Config
	path        string
	storagePath string
	exists      bool
	themeName   string

	// Theme selector
	selectingTheme bool
	themes         []string
	themeCursor    int
	themeOffset    int
}

// NewConfigModel creates a new config view model
func NewConfigModel(session *Session, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	m := ConfigModel{
		session:   session,
		styles:    styles,
		keys:      keys,
		themes:    themeProvider.AvailableThemes(),
		themeName: themeProvider.CurrentName(),
	}
	m.resetCursor()
	return m
}

type configLoadedMsg struct {
	config      config.Config
	path        string
	storagePath string
	exists      bool
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return m.loadConfig()
}

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selectingTheme {
			return m.handleThemeSelection(msg)
		}
		if key.Matches(msg, m.keys.Select) || key.Matches(msg, m.keys.Theme) {
			m.selectingTheme = true
			m.updateThemeOffset()
			return m, nil
		}

	case configLoadedMsg:
		m.config = msg.config
		m.path = msg.path
		m.storagePath = msg.storagePath
		m.exists = msg.exists

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.resetCursor()
		return m, nil
	}

	return m, nil
}

func (m ConfigModel) handleThemeSelection(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(m.themes)-1 {
			m.themeCursor++
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Select):
		m.selectingTheme = false
		if len(m.themes) == 0 {
			return m, nil
		}
		selected := m.themes[m.themeCursor]
		return m, func() tea.Msg {
			return ui.ThemeChangeRequestMsg{ThemeName: selected}
		}
	case key.Matches(msg, m.keys.Back):
		m.selectingTheme = false
		m.resetCursor()
	}
	return m, nil
}

func (m *ConfigModel) resetCursor() {
	for i, t := range m.themes {
		if t == m.themeName {
			m.themeCursor = i
			return
		}
	}
}

// updateThemeOffset keeps the cursor inside the visible window
func (m *ConfigModel) updateThemeOffset() {
	if m.themeCursor < m.themeOffset {
		m.themeOffset = m.themeCursor
	} else if m.themeCursor >= m.themeOffset+maxVisibleThemes {
		m.themeOffset = m.themeCursor - maxVisibleThemes + 1
	}
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(renderStatLine(m.styles, "Config file:", m.path))
	b.WriteString(m.styles.StatLabel.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n")
	b.WriteString(renderStatLine(m.styles, "Log file:", m.storagePath))
	b.WriteString("\n")

	b.WriteString(strings.Repeat("─", min(50, max(m.width, 10))))
	b.WriteString("\n\n")

	maxIdle := m.config.MaxIdle
	if maxIdle == "" {
		maxIdle = "disabled"
	}
	b.WriteString(renderStatLine(m.styles, "week_start_day:", m.config.WeekStartDay))
	b.WriteString(renderStatLine(m.styles, "data_dir:", m.config.DataDir))
	b.WriteString(renderStatLine(m.styles, "log_file:", m.config.LogFile))
	b.WriteString(renderStatLine(m.styles, "max_idle:", maxIdle))
	b.WriteString(renderStatLine(m.styles, "listen_addr:", m.config.ListenAddr))

	if m.selectingTheme {
		b.WriteString(m.renderThemeSelector())
		return b.String()
	}

	b.WriteString(renderStatLine(m.styles, "theme:", m.themeName))
	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("Press Enter or 't' to change theme"))
	return b.String()
}

func (m ConfigModel) renderThemeSelector() string {
	var b strings.Builder

	b.WriteString(renderStatLine(m.styles, "theme:", "Select a theme"))
	b.WriteString("\n")

	end := m.themeOffset + maxVisibleThemes
	if end > len(m.themes) {
		end = len(m.themes)
	}

	if m.themeOffset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more themes above"))
		b.WriteString("\n")
	}

	for i := m.themeOffset; i < end; i++ {
		theme := m.themes[i]
		switch {
		case i == m.themeCursor:
			b.WriteString(m.styles.Selected.Render("▸ " + theme))
			if theme == m.themeName {
				b.WriteString(m.styles.Success.Render(" (current)"))
			}
		case theme == m.themeName:
			b.WriteString("  " + m.styles.Success.Render(theme+" (current)"))
		default:
			b.WriteString("  " + m.styles.StatValue.Render(theme))
		}
		b.WriteString("\n")
	}

	if end < len(m.themes) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more themes below"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("↑/↓ navigate  Enter select  Esc cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSelecting returns true while the theme selector is open
func (m ConfigModel) IsSelecting() bool {
	return m.selectingTheme
}

func (m ConfigModel) loadConfig() tea.Cmd {
	services := m.session.Services()
	return func() tea.Msg {
		return configLoadedMsg{
			config:      services.Config.Get(),
			path:        services.Config.GetPath(),
			storagePath: services.Tracker.StoragePath(),
			exists:      services.Config.Exists(),
		}
	}
}
