// Package timeutil provides calendar helpers for day and week windows.
// Callers pass times already normalized to the canonical zone (UTC for log
// records); every helper keeps the location of its input.
package timeutil

import "time"

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the given day (23:59:59.999999999)
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// StartOfWeek returns 00:00:00 of the first day of the week containing t.
// weekStart is time.Monday for ISO weeks or time.Sunday for US weeks.
func StartOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	offset := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

// EndOfWeek returns the last nanosecond of the week containing t
func EndOfWeek(t time.Time, weekStart time.Weekday) time.Time {
	return StartOfWeek(t, weekStart).AddDate(0, 0, 7).Add(-time.Nanosecond)
}

// SameDay reports whether a and b fall on the same calendar date in a's location
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// SameISOWeek reports whether a and b fall in the same ISO 8601 week
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.In(a.Location()).ISOWeek()
	return ay == by && aw == bw
}

// IsInRange checks if the given time t falls within the range [start, end] (inclusive)
func IsInRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Days returns the start of every calendar day from start to end inclusive.
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := StartOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
