package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xolan/punch/internal/config"
	"github.com/xolan/punch/internal/entry"
	"github.com/xolan/punch/internal/stats"
	"github.com/xolan/punch/internal/storage"
	"github.com/xolan/punch/internal/timeutil"
)

// Tracker-specific errors
var (
	ErrAlreadyWorking       = errors.New("already working")
	ErrAlreadyOnBreak       = errors.New("already on a break")
	ErrInvalidBreakDuration = errors.New("break duration must be positive")
	ErrNothingToArchive     = errors.New("no finished days to archive")
)

// Archiver persists daily totals
type Archiver interface {
	UpsertAll(ctx context.Context, totals []stats.DayTotal) error
}

// TrackerService owns the log of one tracking file and is its only writer.
// It is not safe for concurrent use.
type TrackerService struct {
	storagePath string
	config      config.Config
	now         func() time.Time
	log         *storage.Log
}

// NewTrackerService creates a new TrackerService. Call Bootstrap before use.
func NewTrackerService(storagePath string, cfg config.Config) *TrackerService {
	return &TrackerService{
		storagePath: storagePath,
		config:      cfg,
		now:         time.Now,
		log:         storage.NewLog(storagePath),
	}
}

// SetClock replaces the time source
func (s *TrackerService) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time in UTC
func (s *TrackerService) Now() time.Time {
	return s.now().UTC()
}

// StoragePath returns the path of the log file
func (s *TrackerService) StoragePath() string {
	return s.storagePath
}

// Bootstrap loads the log and compacts it. The file is rewritten only when
// compaction changed the records or rows were skipped, so a missing file
// stays missing and unchanged files keep their backups. It then closes a
// work interval left open longer than max_idle; the synthesized break is
// returned, or nil when none was needed.
func (s *TrackerService) Bootstrap() (*entry.Record, error) {
	l, err := storage.Load(s.storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load log: %w", err)
	}
	if l.Clean() || len(l.Warnings()) > 0 {
		if err := l.Save(); err != nil {
			return nil, fmt.Errorf("failed to save log: %w", err)
		}
	}
	s.log = l

	return s.CloseIdle(s.Now())
}

// CloseIdle appends a Break at lastWork+max_idle when the tracker has been
// in Work for longer than max_idle at now. It returns the appended record,
// or nil when max_idle is disabled or the interval is still fresh.
func (s *TrackerService) CloseIdle(now time.Time) (*entry.Record, error) {
	maxIdle, err := s.config.MaxIdleDuration()
	if err != nil || maxIdle <= 0 {
		return nil, err
	}

	state, since := stats.CurrentState(s.log.Records())
	if state != entry.Work || now.Sub(since) <= maxIdle {
		return nil, nil
	}

	rec := entry.NewBreak(since.Add(maxIdle))
	if err := s.log.Append(rec); err != nil {
		return nil, fmt.Errorf("failed to close idle work: %w", err)
	}
	return &rec, nil
}

// State returns the current state and the time it was entered
func (s *TrackerService) State() (entry.LogType, time.Time) {
	return stats.CurrentState(s.log.Records())
}

// StartWork records a Work event at the current time
func (s *TrackerService) StartWork() (entry.Record, error) {
	if state, _ := s.State(); state == entry.Work {
		return entry.Record{}, ErrAlreadyWorking
	}
	return s.append(entry.NewWork(s.Now()))
}

// StartBreak records a Break event at the current time
func (s *TrackerService) StartBreak() (entry.Record, error) {
	if state, _ := s.State(); state == entry.Break {
		return entry.Record{}, ErrAlreadyOnBreak
	}
	return s.append(entry.NewBreak(s.Now()))
}

// Toggle records Break while working and Work otherwise
func (s *TrackerService) Toggle() (entry.Record, error) {
	if state, _ := s.State(); state == entry.Work {
		return s.append(entry.NewBreak(s.Now()))
	}
	return s.append(entry.NewWork(s.Now()))
}

// AddBreak records a break of length d taken without toggling.
// Sub-second precision is dropped.
func (s *TrackerService) AddBreak(d time.Duration) (entry.Record, error) {
	seconds := int64(d / time.Second)
	if seconds <= 0 {
		return entry.Record{}, ErrInvalidBreakDuration
	}
	return s.append(entry.NewBreakAdd(s.Now(), seconds))
}

func (s *TrackerService) append(rec entry.Record) (entry.Record, error) {
	if err := s.log.Append(rec); err != nil {
		return entry.Record{}, fmt.Errorf("failed to save record: %w", err)
	}
	return rec, nil
}

// Status returns the current state with today's and this week's totals
func (s *TrackerService) Status() StatusResult {
	now := s.Now()
	records := s.log.Records()
	state, since := stats.CurrentState(records)
	weekStart := s.config.WeekStart()

	return StatusResult{
		State:        state,
		Since:        since,
		Now:          now,
		TodaySeconds: stats.WorkedSeconds(records, stats.SameDay(now), now),
		WeekSeconds:  stats.WorkedSeconds(records, stats.SameWeek(now, weekStart), now),
		WeekStart:    timeutil.StartOfWeek(now, weekStart),
	}
}

// Report returns per-day totals and statistics for the days [from, to]
func (s *TrackerService) Report(from, to time.Time) ReportResult {
	now := s.Now()
	start := timeutil.StartOfDay(from.UTC())
	end := timeutil.EndOfDay(to.UTC())
	records := s.log.Records()

	return ReportResult{
		Days:       stats.DailyTotals(records, start, end, now),
		Statistics: stats.CalculateStatistics(records, start, end, now),
		Start:      start,
		End:        end,
	}
}

// Last returns the latest record among the given types, or among all
// records when no type is given
func (s *TrackerService) Last(types ...entry.LogType) (entry.Record, bool) {
	return s.log.Last(types...)
}

// Records returns a copy of the records in file order
func (s *TrackerService) Records() []entry.Record {
	return s.log.Records()
}

// Warnings returns the rows skipped while loading
func (s *TrackerService) Warnings() []storage.ParseWarning {
	return s.log.Warnings()
}

// Compact removes redundant records and rewrites the log
func (s *TrackerService) Compact() (CompactResult, error) {
	result := CompactResult{Before: s.log.Len()}
	s.log.Clean()
	result.After = s.log.Len()
	if err := s.log.Save(); err != nil {
		return result, fmt.Errorf("failed to save log: %w", err)
	}
	return result, nil
}

// Archive stores the totals of every finished day (strictly before today)
// that has records or worked time. Records stay in the log.
func (s *TrackerService) Archive(ctx context.Context, store Archiver) ([]stats.DayTotal, error) {
	records := s.log.Records()
	if len(records) == 0 {
		return nil, ErrNothingToArchive
	}

	now := s.Now()
	first := records[0].Time
	for _, r := range records {
		if r.Time.Before(first) {
			first = r.Time
		}
	}

	yesterday := timeutil.StartOfDay(now).AddDate(0, 0, -1)
	if timeutil.StartOfDay(first).After(yesterday) {
		return nil, ErrNothingToArchive
	}

	var totals []stats.DayTotal
	for _, d := range stats.DailyTotals(records, first, yesterday, now) {
		if d.Records > 0 || d.WorkedSeconds != 0 {
			totals = append(totals, d)
		}
	}
	if len(totals) == 0 {
		return nil, ErrNothingToArchive
	}

	if err := store.UpsertAll(ctx, totals); err != nil {
		return nil, fmt.Errorf("failed to archive: %w", err)
	}
	return totals, nil
}

// Validate reports the health of the log file
func (s *TrackerService) Validate() (storage.StorageHealth, error) {
	return storage.ValidateStorage(s.storagePath)
}

// Backups lists the available backups of the log file
func (s *TrackerService) Backups() ([]storage.BackupInfo, error) {
	return storage.ListBackups(s.storagePath)
}

// Restore replaces the log file with backup n and reloads it
func (s *TrackerService) Restore(n int) error {
	if err := storage.RestoreBackup(s.storagePath, n); err != nil {
		return err
	}
	l, err := storage.Load(s.storagePath)
	if err != nil {
		return fmt.Errorf("failed to reload log: %w", err)
	}
	s.log = l
	return nil
}
