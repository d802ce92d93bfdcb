package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/timeutil"
	"github.com/xolan/punch/internal/tui/ui"
)

const (
	weekDays  = 7
	monthDays = 30
	barWidth  = 30
)

// HistoryModel is the model for the history view
type HistoryModel struct {
	session *Session
	styles  ui.Styles
	keys    ui.KeyMap

	width  int
	height int
	days   int
	result *service.ReportResult
}

// NewHistoryModel creates a new history view model showing the last 7 days
func NewHistoryModel(session *Session, styles ui.Styles, keys ui.KeyMap) HistoryModel {
	return HistoryModel{
		session: session,
		styles:  styles,
		keys:    keys,
		days:    weekDays,
	}
}

type historyLoadedMsg struct {
	result service.ReportResult
}

// Init implements tea.Model
func (m HistoryModel) Init() tea.Cmd {
	return m.loadReport()
}

// Update implements tea.Model
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Week):
			m.days = weekDays
			return m, m.loadReport()
		case key.Matches(msg, m.keys.Month):
			m.days = monthDays
			return m, m.loadReport()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadReport()
		}

	case historyLoadedMsg:
		m.result = &msg.result

	case ui.RecordedMsg:
		return m, m.loadReport()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

// View implements tea.Model
func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render(fmt.Sprintf("Last %d days", m.days)))
	b.WriteString("\n\n")

	if m.result == nil {
		b.WriteString("Loading...")
		return b.String()
	}

	var longest int64
	for _, d := range m.result.Days {
		if d.WorkedSeconds > longest {
			longest = d.WorkedSeconds
		}
	}

	width := barWidth
	if m.width > 0 {
		width = min(barWidth, m.width-30)
	}

	// Newest first
	for i := len(m.result.Days) - 1; i >= 0; i-- {
		d := m.result.Days[i]
		b.WriteString(m.styles.DayLabel.Render(d.Day.Format("Mon 2006-01-02")))
		b.WriteString(m.styles.DayHours.Render(cli.FormatClock(d.WorkedSeconds)))
		b.WriteString(" ")
		b.WriteString(m.styles.Bar.Render(bar(d.WorkedSeconds, longest, width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	st := m.result.Statistics
	b.WriteString(renderStatLine(m.styles, "Total:", fmt.Sprintf("%s (%s h)", cli.FormatDuration(st.TotalSeconds), cli.DecimalHours(st.TotalSeconds))))
	b.WriteString(renderStatLine(m.styles, "Days with work:", fmt.Sprintf("%d %s", st.DaysWithWork, cli.Pluralize("day", st.DaysWithWork))))
	b.WriteString(renderStatLine(m.styles, "Average per day:", cli.FormatDuration(int64(st.AverageSecondsPerDay))))
	if st.CorrectionSeconds > 0 {
		b.WriteString(renderStatLine(m.styles, "Break corrections:", cli.FormatDuration(st.CorrectionSeconds)))
	}

	return b.String()
}

// SetSize sets the view dimensions
func (m *HistoryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m HistoryModel) loadReport() tea.Cmd {
	days := m.days
	return func() tea.Msg {
		var result service.ReportResult
		_ = m.session.WithTracker(func(t *service.TrackerService) error {
			now := t.Now()
			from := timeutil.StartOfDay(now).AddDate(0, 0, -(days - 1))
			result = t.Report(from, now)
			return nil
		})
		return historyLoadedMsg{result: result}
	}
}
