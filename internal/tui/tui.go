// Package tui provides the Terminal User Interface for the punch application.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/tui/ui"
	"github.com/xolan/punch/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabTracker Tab = iota
	TabHistory
	TabConfig
)

var tabNames = []string{"Tracker", "History", "Config"}

// Model is the root TUI model
type Model struct {
	session *views.Session

	activeTab Tab
	width     int
	height    int
	showHelp  bool

	trackerView views.TrackerModel
	historyView views.HistoryModel
	configView  views.ConfigModel

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(services *service.Services) Model {
	session := views.NewSession(services)
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		session:       session,
		activeTab:     TabTracker,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		trackerView:   views.NewTrackerModel(session, styles, keys),
		historyView:   views.NewHistoryModel(session, styles, keys),
		configView:    views.NewConfigModel(session, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.trackerView.Init()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		modal := m.isModal()

		switch {
		case key.Matches(msg, m.keys.Quit) && !modal:
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help) && !modal:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !modal:
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.PrevTab) && !modal:
			m.activeTab = Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames))
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab1) && !modal:
			m.activeTab = TabTracker
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab2) && !modal:
			m.activeTab = TabHistory
			return m, m.initCurrentView()

		case key.Matches(msg, m.keys.Tab3) && !modal:
			m.activeTab = TabConfig
			return m, m.initCurrentView()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.trackerView.SetSize(m.width, contentHeight)
		m.historyView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		name := m.themeProvider.CurrentName()
		m.styles = m.themeProvider.Styles()

		changed := ui.ThemeChangedMsg{ThemeName: name, Styles: m.styles}
		m.trackerView, _ = m.trackerView.Update(changed)
		m.historyView, _ = m.historyView.Update(changed)
		m.configView, _ = m.configView.Update(changed)

		return m, m.saveThemeConfig(name)

	case ui.RecordedMsg:
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd
	}

	// The tracker ticks regardless of the visible tab
	if _, ok := msg.(tea.KeyMsg); !ok && m.activeTab != TabTracker {
		var trackerCmd tea.Cmd
		m.trackerView, trackerCmd = m.trackerView.Update(msg)
		m, cmd = m.updateActive(msg)
		return m, tea.Batch(trackerCmd, cmd)
	}

	m, cmd = m.updateActive(msg)
	return m, cmd
}

func (m Model) updateActive(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeTab {
	case TabTracker:
		m.trackerView, cmd = m.trackerView.Update(msg)
	case TabHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	case TabConfig:
		m.configView, cmd = m.configView.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabTracker:
		b.WriteString(m.trackerView.View())
	case TabHistory:
		b.WriteString(m.historyView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatusBar())

	return m.styles.App.Render(b.String())
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.isModal() {
		parts = append(parts, m.renderKeyHelp("Enter", "confirm"))
		parts = append(parts, m.renderKeyHelp("Esc", "cancel"))
	} else {
		switch m.activeTab {
		case TabTracker:
			parts = append(parts, m.renderKeyHelp("space", "toggle"))
			parts = append(parts, m.renderKeyHelp("w/b", "work/break"))
			parts = append(parts, m.renderKeyHelp("a", "add break"))
		case TabHistory:
			parts = append(parts, m.renderKeyHelp("w", "7 days"))
			parts = append(parts, m.renderKeyHelp("m", "30 days"))
		case TabConfig:
			parts = append(parts, m.renderKeyHelp("t", "themes"))
		}

		parts = append(parts, m.renderKeyHelp("1-3", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")
	if padding := m.width - lipgloss.Width(content); padding > 0 {
		content += strings.Repeat(" ", padding)
	}

	return m.styles.StatusBar.Render(content)
}

func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// isModal reports whether the active view owns the keyboard
func (m Model) isModal() bool {
	switch m.activeTab {
	case TabTracker:
		return m.trackerView.IsInputMode()
	case TabConfig:
		return m.configView.IsSelecting()
	}
	return false
}

func (m Model) initCurrentView() tea.Cmd {
	switch m.activeTab {
	case TabTracker:
		return m.trackerView.Init()
	case TabHistory:
		return m.historyView.Init()
	case TabConfig:
		return m.configView.Init()
	}
	return nil
}

// saveThemeConfig persists the theme choice
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	services := m.session.Services()
	return func() tea.Msg {
		cfg := services.Config.Get()
		cfg.Theme = themeName
		_ = services.Config.Update(cfg)
		return nil
	}
}

func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/1-3    Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n")
	help.WriteString("\n")

	switch m.activeTab {
	case TabTracker:
		help.WriteString(m.styles.StatLabel.Render("Tracker:"))
		help.WriteString("\n")
		help.WriteString("  space      Toggle work/break\n")
		help.WriteString("  w          Start work\n")
		help.WriteString("  b          Start break\n")
		help.WriteString("  a          Subtract a forgotten break\n")
		help.WriteString("  r          Refresh\n")
	case TabHistory:
		help.WriteString(m.styles.StatLabel.Render("History:"))
		help.WriteString("\n")
		help.WriteString("  w          Last 7 days\n")
		help.WriteString("  m          Last 30 days\n")
		help.WriteString("  r          Refresh\n")
	case TabConfig:
		help.WriteString(m.styles.StatLabel.Render("Config:"))
		help.WriteString("\n")
		help.WriteString("  t/Enter    Open theme selector\n")
		help.WriteString("  j/k        Navigate themes\n")
		help.WriteString("  Esc        Cancel\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI application
func Run(services *service.Services) error {
	p := tea.NewProgram(New(services), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
