package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/tui/ui"
)

// TrackerModel is the model for the tracker view
type TrackerModel struct {
	session *Session
	styles  ui.Styles
	keys    ui.KeyMap

	width  int
	height int
	status *service.StatusResult
	notice string
	err    error

	// Break correction input
	inputMode bool
	input     textinput.Model
}

// NewTrackerModel creates a new tracker view model
func NewTrackerModel(session *Session, styles ui.Styles, keys ui.KeyMap) TrackerModel {
	ti := textinput.New()
	ti.Placeholder = "30m, 1h or 1h30m"
	ti.CharLimit = 10
	ti.Width = 20

	return TrackerModel{
		session: session,
		styles:  styles,
		keys:    keys,
		input:   ti,
	}
}

type trackerStatusMsg struct {
	status service.StatusResult
}

type trackerRecordedMsg struct {
	record entry.Record
	status service.StatusResult
	err    error
}

type trackerTickMsg time.Time

// Init implements tea.Model
func (m TrackerModel) Init() tea.Cmd {
	return tea.Batch(m.loadStatus(), m.tick())
}

// Update implements tea.Model
func (m TrackerModel) Update(msg tea.Msg) (TrackerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Toggle):
			return m, m.record(func(t *service.TrackerService) (entry.Record, error) { return t.Toggle() })
		case key.Matches(msg, m.keys.Work):
			return m, m.record(func(t *service.TrackerService) (entry.Record, error) { return t.StartWork() })
		case key.Matches(msg, m.keys.Break):
			return m, m.record(func(t *service.TrackerService) (entry.Record, error) { return t.StartBreak() })
		case key.Matches(msg, m.keys.AddBreak):
			m.inputMode = true
			m.notice = ""
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Refresh):
			return m, m.loadStatus()
		}

	case trackerStatusMsg:
		m.status = &msg.status
		return m, nil

	case trackerRecordedMsg:
		m.status = &msg.status
		if msg.err != nil {
			m.notice = m.styles.Warning.Render(msg.err.Error())
			return m, nil
		}
		m.notice = m.styles.Success.Render("Recorded " + cli.FormatRecord(msg.record))
		return m, func() tea.Msg { return ui.RecordedMsg{} }

	case trackerTickMsg:
		return m, tea.Batch(m.closeIdle(), m.tick())

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m TrackerModel) handleInputMode(msg tea.KeyMsg) (TrackerModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		minutes, err := entry.ParseDuration(m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.inputMode = false
		m.input.Blur()
		d := time.Duration(minutes) * time.Minute
		return m, m.record(func(t *service.TrackerService) (entry.Record, error) { return t.AddBreak(d) })
	case key.Matches(msg, m.keys.Back):
		m.err = nil
		m.inputMode = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m TrackerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Tracker"))
	b.WriteString("\n\n")

	if m.status == nil {
		b.WriteString("Loading...")
		return b.String()
	}

	s := m.status
	switch s.State {
	case entry.Work:
		b.WriteString(m.styles.Working.Render("● Working"))
	case entry.Break:
		b.WriteString(m.styles.OnBreak.Render("○ On break"))
	default:
		b.WriteString(m.styles.Idle.Render("Not started"))
	}
	if s.State != entry.Unknown {
		b.WriteString(m.styles.StatLabel.Render(" since " + formatSince(s.Since, s.Now)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.styles.StatLabel.Render("Today:"))
	b.WriteString(" ")
	b.WriteString(m.styles.Clock.Render(cli.FormatClock(s.TodaySeconds)))
	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("This week:"))
	b.WriteString(" ")
	b.WriteString(m.styles.Clock.Render(cli.FormatClock(s.WeekSeconds)))
	b.WriteString(m.styles.StatLabel.Render(fmt.Sprintf("  (%s h)", cli.DecimalHours(s.WeekSeconds))))
	b.WriteString("\n\n")

	if m.inputMode {
		b.WriteString(m.styles.StatLabel.Render("Break to subtract:"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		if m.err != nil {
			b.WriteString(m.styles.Error.Render(m.err.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Enter to add, Esc to cancel"))
		return b.String()
	}

	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.StatLabel.Render("Press space to toggle, 'a' to add a break"))

	return b.String()
}

// SetSize sets the view dimensions
func (m *TrackerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m TrackerModel) IsInputMode() bool {
	return m.inputMode
}

func (m TrackerModel) loadStatus() tea.Cmd {
	return func() tea.Msg {
		var status service.StatusResult
		_ = m.session.WithTracker(func(t *service.TrackerService) error {
			status = t.Status()
			return nil
		})
		return trackerStatusMsg{status: status}
	}
}

// closeIdle refreshes the status after closing a work interval that went
// past max_idle. A synthesized break is reported like a recorded one.
func (m TrackerModel) closeIdle() tea.Cmd {
	return func() tea.Msg {
		var (
			closed *entry.Record
			err    error
			status service.StatusResult
		)
		_ = m.session.WithTracker(func(t *service.TrackerService) error {
			closed, err = t.CloseIdle(t.Now())
			status = t.Status()
			return nil
		})
		if closed == nil && err == nil {
			return trackerStatusMsg{status: status}
		}
		msg := trackerRecordedMsg{status: status, err: err}
		if closed != nil {
			msg.record = *closed
		}
		return msg
	}
}

func (m TrackerModel) record(fn func(t *service.TrackerService) (entry.Record, error)) tea.Cmd {
	return func() tea.Msg {
		var msg trackerRecordedMsg
		_ = m.session.WithTracker(func(t *service.TrackerService) error {
			msg.record, msg.err = fn(t)
			msg.status = t.Status()
			return nil
		})
		return msg
	}
}

func (m TrackerModel) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return trackerTickMsg(t)
	})
}
