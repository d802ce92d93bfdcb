package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/tui/ui"
)

var testNow = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

const sampleLog = `Time,LogType,AddSeconds
2024-03-05T08:00:00Z,Work,
2024-03-05T12:00:00Z,Break,
2024-03-05T13:00:00Z,Work,
2024-03-05T17:00:00Z,Break,
2024-03-06T09:00:00Z,Work,
`

func setupSession(t *testing.T, content string) *Session {
	t.Helper()
	return setupSessionWithConfig(t, content, config.DefaultConfig())
}

func setupSessionWithConfig(t *testing.T, content string, cfg config.Config) *Session {
	t.Helper()
	tmpDir := t.TempDir()
	storagePath := filepath.Join(tmpDir, "log.csv")
	configPath := filepath.Join(tmpDir, "config.toml")

	if content != "" {
		if err := os.WriteFile(storagePath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	services := service.NewServicesWithPaths(storagePath, configPath, cfg)
	services.Tracker.SetClock(func() time.Time { return testNow })
	if _, err := services.Tracker.Bootstrap(); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	return NewSession(services)
}

func testStyles() ui.Styles {
	return ui.NewThemeProvider("").Styles()
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTrackerModel_LoadStatus(t *testing.T) {
	session := setupSession(t, sampleLog)
	m := NewTrackerModel(session, testStyles(), ui.DefaultKeyMap())

	msg := m.loadStatus()()
	m, _ = m.Update(msg)

	if m.status == nil {
		t.Fatal("expected status to be set")
	}
	if m.status.State != entry.Work {
		t.Errorf("State = %v, want Work", m.status.State)
	}
	if m.status.TodaySeconds != 3*3600 {
		t.Errorf("TodaySeconds = %d, want %d", m.status.TodaySeconds, 3*3600)
	}

	view := m.View()
	if !strings.Contains(view, "Working") {
		t.Errorf("view missing state: %s", view)
	}
	if !strings.Contains(view, "03:00") {
		t.Errorf("view missing today's clock: %s", view)
	}
}

func TestTrackerModel_ViewBeforeLoad(t *testing.T) {
	m := NewTrackerModel(setupSession(t, ""), testStyles(), ui.DefaultKeyMap())
	if !strings.Contains(m.View(), "Loading") {
		t.Error("expected loading view")
	}
}

func TestTrackerModel_NotStarted(t *testing.T) {
	m := NewTrackerModel(setupSession(t, ""), testStyles(), ui.DefaultKeyMap())
	m, _ = m.Update(m.loadStatus()())

	if !strings.Contains(m.View(), "Not started") {
		t.Errorf("expected not started view, got: %s", m.View())
	}
}

func TestTrackerModel_Toggle(t *testing.T) {
	session := setupSession(t, sampleLog)
	m := NewTrackerModel(session, testStyles(), ui.DefaultKeyMap())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if cmd == nil {
		t.Fatal("expected toggle command")
	}

	msg, ok := cmd().(trackerRecordedMsg)
	if !ok {
		t.Fatal("expected trackerRecordedMsg")
	}
	if msg.err != nil {
		t.Fatalf("toggle error = %v", msg.err)
	}
	if msg.record.Type != entry.Break {
		t.Errorf("recorded %v, want Break", msg.record.Type)
	}

	m, next := m.Update(msg)
	if m.status.State != entry.Break {
		t.Errorf("State = %v, want Break", m.status.State)
	}
	if _, ok := next().(ui.RecordedMsg); !ok {
		t.Error("expected RecordedMsg after a successful record")
	}
}

func TestTrackerModel_RedundantWorkShowsNotice(t *testing.T) {
	session := setupSession(t, sampleLog)
	m := NewTrackerModel(session, testStyles(), ui.DefaultKeyMap())

	_, cmd := m.Update(keyRunes("w"))
	msg := cmd().(trackerRecordedMsg)
	if msg.err == nil {
		t.Fatal("expected error when already working")
	}

	m, next := m.Update(msg)
	if next != nil {
		t.Error("expected no follow-up command on error")
	}
	if !strings.Contains(m.View(), "already working") {
		t.Errorf("expected notice in view, got: %s", m.View())
	}
}

func TestTrackerModel_AddBreakInput(t *testing.T) {
	session := setupSession(t, sampleLog)
	m := NewTrackerModel(session, testStyles(), ui.DefaultKeyMap())

	m, _ = m.Update(keyRunes("a"))
	if !m.IsInputMode() {
		t.Fatal("expected input mode after 'a'")
	}

	m.input.SetValue("30m")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.IsInputMode() {
		t.Error("expected input mode to close after Enter")
	}
	if cmd == nil {
		t.Fatal("expected add-break command")
	}

	msg := cmd().(trackerRecordedMsg)
	if msg.err != nil {
		t.Fatalf("add break error = %v", msg.err)
	}
	if msg.record.Type != entry.BreakAdd {
		t.Errorf("recorded %v, want BreakAdd", msg.record.Type)
	}
	if msg.record.AddSeconds == nil || *msg.record.AddSeconds != 1800 {
		t.Errorf("AddSeconds = %v, want 1800", msg.record.AddSeconds)
	}
	if msg.status.TodaySeconds != 3*3600-1800 {
		t.Errorf("TodaySeconds = %d, want %d", msg.status.TodaySeconds, 3*3600-1800)
	}
}

func TestTrackerModel_AddBreakInvalidInput(t *testing.T) {
	m := NewTrackerModel(setupSession(t, sampleLog), testStyles(), ui.DefaultKeyMap())

	m, _ = m.Update(keyRunes("a"))
	m.input.SetValue("soon")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("expected no command for invalid input")
	}
	if !m.IsInputMode() {
		t.Error("expected to stay in input mode")
	}
	if m.err == nil {
		t.Error("expected parse error to be shown")
	}
}

func TestTrackerModel_AddBreakCancel(t *testing.T) {
	m := NewTrackerModel(setupSession(t, sampleLog), testStyles(), ui.DefaultKeyMap())

	m, _ = m.Update(keyRunes("a"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.IsInputMode() {
		t.Error("expected Esc to close input mode")
	}
}

func TestTrackerModel_Tick(t *testing.T) {
	m := NewTrackerModel(setupSession(t, sampleLog), testStyles(), ui.DefaultKeyMap())

	_, cmd := m.Update(trackerTickMsg(testNow))
	if cmd == nil {
		t.Error("expected tick to schedule a reload and the next tick")
	}
}

func TestTrackerModel_TickClosesIdleWork(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxIdle = "2h"
	session := setupSessionWithConfig(t, "Time,LogType,AddSeconds\n2024-03-06T11:00:00Z,Work,\n", cfg)
	m := NewTrackerModel(session, testStyles(), ui.DefaultKeyMap())

	if msg, ok := m.closeIdle()().(trackerStatusMsg); !ok || msg.status.State != entry.Work {
		t.Fatalf("expected a status refresh while work is fresh, got %#v", msg)
	}

	session.Services().Tracker.SetClock(func() time.Time { return testNow.Add(150 * time.Minute) })
	msg, ok := m.closeIdle()().(trackerRecordedMsg)
	if !ok {
		t.Fatal("expected a recorded break once work went idle")
	}
	if msg.err != nil {
		t.Fatalf("closeIdle() error = %v", msg.err)
	}
	want := time.Date(2024, 3, 6, 13, 0, 0, 0, time.UTC)
	if msg.record.Type != entry.Break || !msg.record.Time.Equal(want) {
		t.Errorf("record = %+v, want Break at %v", msg.record, want)
	}
	if msg.status.State != entry.Break {
		t.Errorf("status state = %v, want Break", msg.status.State)
	}

	m, cmd := m.Update(msg)
	if cmd == nil || !strings.Contains(m.notice, "Recorded") {
		t.Errorf("expected a notice and a RecordedMsg, notice = %q", m.notice)
	}
}

func TestHistoryModel_Week(t *testing.T) {
	session := setupSession(t, sampleLog)
	m := NewHistoryModel(session, testStyles(), ui.DefaultKeyMap())

	m, _ = m.Update(m.loadReport()())
	if m.result == nil {
		t.Fatal("expected report")
	}
	if len(m.result.Days) != 7 {
		t.Errorf("len(Days) = %d, want 7", len(m.result.Days))
	}

	view := m.View()
	for _, want := range []string{"Last 7 days", "Tue 2024-03-05", "08:00", "Wed 2024-03-06", "03:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHistoryModel_Month(t *testing.T) {
	m := NewHistoryModel(setupSession(t, sampleLog), testStyles(), ui.DefaultKeyMap())

	m, cmd := m.Update(keyRunes("m"))
	if m.days != monthDays {
		t.Errorf("days = %d, want %d", m.days, monthDays)
	}
	m, _ = m.Update(cmd())
	if len(m.result.Days) != monthDays {
		t.Errorf("len(Days) = %d, want %d", len(m.result.Days), monthDays)
	}
	if !strings.Contains(m.View(), "Last 30 days") {
		t.Error("expected 30 day title")
	}
}

func TestHistoryModel_ReloadsOnRecorded(t *testing.T) {
	m := NewHistoryModel(setupSession(t, sampleLog), testStyles(), ui.DefaultKeyMap())

	_, cmd := m.Update(ui.RecordedMsg{})
	if cmd == nil {
		t.Error("expected reload after a new record")
	}
}

func TestConfigModel_View(t *testing.T) {
	session := setupSession(t, "")
	tp := ui.NewThemeProvider("")
	m := NewConfigModel(session, tp, tp.Styles(), ui.DefaultKeyMap())

	m, _ = m.Update(m.loadConfig()())

	view := m.View()
	for _, want := range []string{"week_start_day:", "monday", "log.csv", "disabled", config.DefaultListenAddr, "dracula", "Using defaults"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestConfigModel_ThemeSelection(t *testing.T) {
	session := setupSession(t, "")
	tp := ui.NewThemeProvider("")
	m := NewConfigModel(session, tp, tp.Styles(), ui.DefaultKeyMap())

	m, _ = m.Update(keyRunes("t"))
	if !m.IsSelecting() {
		t.Fatal("expected theme selector to open")
	}

	start := m.themeCursor
	m, _ = m.Update(keyRunes("j"))
	if m.themeCursor != start+1 {
		t.Errorf("cursor = %d, want %d", m.themeCursor, start+1)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.IsSelecting() {
		t.Error("expected selector to close")
	}
	req, ok := cmd().(ui.ThemeChangeRequestMsg)
	if !ok {
		t.Fatal("expected ThemeChangeRequestMsg")
	}
	if req.ThemeName != m.themes[start+1] {
		t.Errorf("requested %q, want %q", req.ThemeName, m.themes[start+1])
	}
}

func TestConfigModel_ThemeSelectionCancel(t *testing.T) {
	tp := ui.NewThemeProvider("")
	m := NewConfigModel(setupSession(t, ""), tp, tp.Styles(), ui.DefaultKeyMap())

	m, _ = m.Update(keyRunes("t"))
	start := m.themeCursor
	m, _ = m.Update(keyRunes("j"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	if m.IsSelecting() {
		t.Error("expected selector to close")
	}
	if m.themeCursor != start {
		t.Errorf("cursor = %d, want reset to %d", m.themeCursor, start)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		value, max int64
		width      int
		want       int
	}{
		{0, 100, 10, 0},
		{100, 100, 10, 10},
		{50, 100, 10, 5},
		{1, 100, 10, 1},
		{-5, 100, 10, 0},
		{10, 0, 10, 0},
	}

	for _, tt := range tests {
		got := len([]rune(bar(tt.value, tt.max, tt.width)))
		if got != tt.want {
			t.Errorf("bar(%d, %d, %d) width = %d, want %d", tt.value, tt.max, tt.width, got, tt.want)
		}
	}
}
