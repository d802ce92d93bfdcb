package views

import (
	"strings"
	"sync"
	"time"

	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/tui/ui"
)

// Session serialises tracker access across the views. Commands run on
// bubbletea's goroutines, and the tracker is a single writer.
type Session struct {
	mu       sync.Mutex
	services *service.Services
}

// NewSession wraps services for use by the views
func NewSession(services *service.Services) *Session {
	return &Session{services: services}
}

// Services returns the wrapped services
func (s *Session) Services() *service.Services {
	return s.services
}

// WithTracker runs fn while holding the tracker lock
func (s *Session) WithTracker(fn func(t *service.TrackerService) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.services.Tracker)
}

func renderStatLine(styles ui.Styles, label, value string) string {
	return styles.StatLabel.Render(label) + " " + styles.StatValue.Render(value) + "\n"
}

func formatSince(t, now time.Time) string {
	local := t.Local()
	n := now.Local()
	if local.Year() == n.Year() && local.YearDay() == n.YearDay() {
		return "today at " + local.Format("15:04")
	}
	return local.Format("Mon Jan 2 at 15:04")
}

// bar renders a horizontal bar of width cells scaled to value/max
func bar(value, max int64, width int) string {
	if max <= 0 || value <= 0 || width <= 0 {
		return ""
	}
	n := int(value * int64(width) / max)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
