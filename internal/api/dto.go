package api

import (
	"time"

	"github.com/xolan/punch/internal/cli"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/service"
	"github.com/xolan/punch/internal/stats"
)

// StatusDTO is the response of GET /api/status
type StatusDTO struct {
	State        string     `json:"state"`
	Since        *time.Time `json:"since,omitempty"`
	Now          time.Time  `json:"now"`
	TodaySeconds int64      `json:"today_seconds"`
	TodayHours   string     `json:"today_hours"`
	WeekSeconds  int64      `json:"week_seconds"`
	WeekHours    string     `json:"week_hours"`
}

// RecordDTO is one log record
type RecordDTO struct {
	Time       time.Time `json:"time"`
	Type       string    `json:"type"`
	AddSeconds *int64    `json:"add_seconds,omitempty"`
}

// DayDTO is the total of one day
type DayDTO struct {
	Day           string `json:"day"`
	WorkedSeconds int64  `json:"worked_seconds"`
	Hours         string `json:"hours"`
	Records       int    `json:"records"`
}

// ReportDTO is the response of GET /api/report
type ReportDTO struct {
	From                 string   `json:"from"`
	To                   string   `json:"to"`
	Days                 []DayDTO `json:"days"`
	TotalSeconds         int64    `json:"total_seconds"`
	TotalHours           string   `json:"total_hours"`
	AverageSecondsPerDay float64  `json:"average_seconds_per_day"`
	DaysWithWork         int      `json:"days_with_work"`
}

// BreakAddRequest is the body of POST /api/break-add
type BreakAddRequest struct {
	Minutes int `json:"minutes"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toStatusDTO(s service.StatusResult) StatusDTO {
	dto := StatusDTO{
		State:        s.State.String(),
		Now:          s.Now,
		TodaySeconds: s.TodaySeconds,
		TodayHours:   cli.DecimalHours(s.TodaySeconds),
		WeekSeconds:  s.WeekSeconds,
		WeekHours:    cli.DecimalHours(s.WeekSeconds),
	}
	if s.State != entry.Unknown {
		since := s.Since
		dto.Since = &since
	}
	return dto
}

func toRecordDTO(r entry.Record) RecordDTO {
	return RecordDTO{Time: r.Time, Type: r.Type.String(), AddSeconds: r.AddSeconds}
}

func toRecordDTOs(records []entry.Record) []RecordDTO {
	out := make([]RecordDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toRecordDTO(r))
	}
	return out
}

func toDayDTOs(days []stats.DayTotal) []DayDTO {
	out := make([]DayDTO, 0, len(days))
	for _, d := range days {
		out = append(out, DayDTO{
			Day:           d.Key(),
			WorkedSeconds: d.WorkedSeconds,
			Hours:         cli.DecimalHours(d.WorkedSeconds),
			Records:       d.Records,
		})
	}
	return out
}

func toReportDTO(r service.ReportResult) ReportDTO {
	return ReportDTO{
		From:                 r.Start.Format("2006-01-02"),
		To:                   r.End.Format("2006-01-02"),
		Days:                 toDayDTOs(r.Days),
		TotalSeconds:         r.Statistics.TotalSeconds,
		TotalHours:           cli.DecimalHours(r.Statistics.TotalSeconds),
		AverageSecondsPerDay: r.Statistics.AverageSecondsPerDay,
		DaysWithWork:         r.Statistics.DaysWithWork,
	}
}
