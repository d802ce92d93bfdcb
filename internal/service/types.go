// Package service provides the business logic layer for the punch application.
// It wraps the storage, stats, config and history packages, providing one API
// for the CLI, TUI and HTTP frontends.
package service

import (
	"time"

	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/stats"
)

// StatusResult is the tracker state at a point in time
type StatusResult struct {
	State        entry.LogType // Work, Break, or Unknown when nothing was tracked yet
	Since        time.Time     // Time of the record that set State
	Now          time.Time
	TodaySeconds int64
	WeekSeconds  int64
	WeekStart    time.Time
}

// ReportResult contains per-day totals and statistics for a date range
type ReportResult struct {
	Days       []stats.DayTotal
	Statistics stats.Statistics
	Start      time.Time
	End        time.Time
}

// CompactResult describes what Compact removed
type CompactResult struct {
	Before int
	After  int
}

// Removed returns the number of records dropped
func (r CompactResult) Removed() int {
	return r.Before - r.After
}
