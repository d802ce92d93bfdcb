// Package stats derives worked time from a sequence of log records.
package stats

import (
	"time"

	"github.com/xolan/punch/internal/compact"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/timeutil"
)

// Window selects the records that count toward one aggregate
type Window func(entry.Record) bool

// All matches every record
func All() Window {
	return func(entry.Record) bool { return true }
}

// SameDay matches records on the UTC calendar day of ref
func SameDay(ref time.Time) Window {
	ref = ref.UTC()
	return func(r entry.Record) bool {
		return timeutil.SameDay(ref, r.Time)
	}
}

// SameWeek matches records in the week of ref. With weekStart Monday this is
// the ISO 8601 week.
func SameWeek(ref time.Time, weekStart time.Weekday) Window {
	ref = ref.UTC()
	if weekStart == time.Monday {
		return func(r entry.Record) bool {
			return timeutil.SameISOWeek(ref, r.Time)
		}
	}
	return Between(timeutil.StartOfWeek(ref, weekStart), timeutil.EndOfWeek(ref, weekStart))
}

// Between matches records with start <= time <= end
func Between(start, end time.Time) Window {
	return func(r entry.Record) bool {
		return timeutil.IsInRange(r.Time, start, end)
	}
}

// WorkedSeconds returns the active work time, in seconds, of the records the
// window selects, as of now.
//
// A Work record opens an interval (closing any interval still open), a Break
// closes it, a BreakAdd subtracts its AddSeconds, Unknown is ignored. An
// interval still open after the last record runs until now. The result is
// signed; corrections can push it below zero.
func WorkedSeconds(records []entry.Record, window Window, now time.Time) int64 {
	selected := make([]entry.Record, 0, len(records))
	for _, r := range records {
		if window(r) {
			selected = append(selected, r)
		}
	}
	entry.SortByTime(selected)

	var sum int64
	var open *time.Time
	for _, r := range selected {
		switch r.Type {
		case entry.BreakAdd:
			sum -= r.Correction()
		case entry.Break:
			sum += secondsSince(open, r.Time)
			open = nil
		case entry.Work:
			sum += secondsSince(open, r.Time)
			started := r.Time
			open = &started
		}
	}
	return sum + secondsSince(open, now)
}

func secondsSince(start *time.Time, end time.Time) int64 {
	if start == nil {
		return 0
	}
	return int64(end.Sub(*start) / time.Second)
}

// CurrentState returns the type of the latest Work or Break record, or
// Unknown when there is none, along with that record's time.
func CurrentState(records []entry.Record) (entry.LogType, time.Time) {
	state := entry.Unknown
	var since time.Time
	for _, r := range records {
		if r.Type != entry.Work && r.Type != entry.Break {
			continue
		}
		if state == entry.Unknown || r.Time.After(since) {
			state = r.Type
			since = r.Time
		}
	}
	return state, since
}

// DayTotal is the worked time of one calendar day
type DayTotal struct {
	Day           time.Time // UTC midnight
	WorkedSeconds int64
	Records       int
}

// Key returns the day formatted as YYYY-MM-DD
func (d DayTotal) Key() string {
	return compact.DayKey(d.Day)
}

// DailyTotals returns one total per calendar day in [from, to]. Each day is
// aggregated on its own; an interval still open at the end of a past day is
// counted up to midnight.
func DailyTotals(records []entry.Record, from, to, now time.Time) []DayTotal {
	days := timeutil.Days(from.UTC(), to.UTC())
	totals := make([]DayTotal, 0, len(days))
	for _, day := range days {
		window := SameDay(day)
		dayEnd := timeutil.EndOfDay(day)
		ref := now
		if now.After(dayEnd) {
			ref = dayEnd.Add(time.Nanosecond)
		}

		count := 0
		for _, r := range records {
			if window(r) {
				count++
			}
		}

		totals = append(totals, DayTotal{
			Day:           day,
			WorkedSeconds: WorkedSeconds(records, window, ref),
			Records:       count,
		})
	}
	return totals
}

// Statistics contains aggregated statistics for a date range
type Statistics struct {
	TotalSeconds         int64
	AverageSecondsPerDay float64
	DaysWithWork         int
	CorrectionSeconds    int64
	RecordCount          int
}

// CalculateStatistics computes statistics for records within [start, end]
func CalculateStatistics(records []entry.Record, start, end, now time.Time) Statistics {
	stats := Statistics{}

	totals := DailyTotals(records, start, end, now)
	for _, d := range totals {
		stats.TotalSeconds += d.WorkedSeconds
		stats.RecordCount += d.Records
		if d.WorkedSeconds > 0 {
			stats.DaysWithWork++
		}
	}

	window := Between(start, end)
	for _, r := range records {
		if window(r) {
			stats.CorrectionSeconds += r.Correction()
		}
	}

	if len(totals) > 0 {
		stats.AverageSecondsPerDay = float64(stats.TotalSeconds) / float64(len(totals))
	}

	return stats
}
