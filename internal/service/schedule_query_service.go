package service

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/pkg/dates"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

// ScheduleQueryService answers read queries over a generated schedule:
// date and range lookups, week views, progress, and headline statistics.
// All methods treat the schedule as immutable.
type ScheduleQueryService struct {
	logger *zap.Logger
}

// NewScheduleQueryService creates a query service instance.
func NewScheduleQueryService(logger *zap.Logger) *ScheduleQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleQueryService{logger: logger}
}

// EntriesForDate returns every entry across all sections scheduled on the
// given ISO date.
func (s *ScheduleQueryService) EntriesForDate(schedule *models.CourseSchedule, date string) []models.ScheduleEntry {
	matches := make([]models.ScheduleEntry, 0)
	for _, entry := range schedule.AllEntries {
		if entry.Date == date {
			matches = append(matches, entry)
		}
	}
	return matches
}

// EntriesInRange returns all entries with start <= date <= end, in
// schedule order.
func (s *ScheduleQueryService) EntriesInRange(schedule *models.CourseSchedule, start, end string) []models.ScheduleEntry {
	matches := make([]models.ScheduleEntry, 0)
	for _, entry := range schedule.AllEntries {
		if dates.WithinInclusive(entry.Date, start, end) {
			matches = append(matches, entry)
		}
	}
	return matches
}

// UpcomingMeetings returns up to limit entries on or after the reference
// date. Cancelled meetings stay in the list so callers can show the gap.
func (s *ScheduleQueryService) UpcomingMeetings(schedule *models.CourseSchedule, today string, limit int) []models.ScheduleEntry {
	matches := make([]models.ScheduleEntry, 0, limit)
	for _, entry := range schedule.AllEntries {
		if entry.Date < today {
			continue
		}
		matches = append(matches, entry)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches
}

// RecentMeetings returns up to limit entries strictly before the
// reference date, most recent first, cancelled ones included.
func (s *ScheduleQueryService) RecentMeetings(schedule *models.CourseSchedule, today string, limit int) []models.ScheduleEntry {
	matches := make([]models.ScheduleEntry, 0, limit)
	for i := len(schedule.AllEntries) - 1; i >= 0; i-- {
		entry := schedule.AllEntries[i]
		if entry.Date >= today {
			continue
		}
		matches = append(matches, entry)
		if limit > 0 && len(matches) >= limit {
			break
		}
	}
	return matches
}

// UpcomingAssignments returns assignments due on or after the reference
// date, ordered by due date.
func (s *ScheduleQueryService) UpcomingAssignments(cfg *models.CourseConfig, today string, limit int) []models.Assignment {
	matches := make([]models.Assignment, 0)
	for _, a := range cfg.Assignments {
		if a.DueDate >= today {
			matches = append(matches, a)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DueDate < matches[j].DueDate
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// AssignmentsDueInRange returns assignments with start <= dueDate <= end
// in configuration order.
func (s *ScheduleQueryService) AssignmentsDueInRange(cfg *models.CourseConfig, start, end string) []models.Assignment {
	matches := make([]models.Assignment, 0)
	for _, a := range cfg.Assignments {
		if dates.WithinInclusive(a.DueDate, start, end) {
			matches = append(matches, a)
		}
	}
	return matches
}

// CurrentWeekSchedule returns the entries of the Sunday-to-Saturday week
// containing the reference date.
func (s *ScheduleQueryService) CurrentWeekSchedule(schedule *models.CourseSchedule, today string) ([]models.ScheduleEntry, error) {
	t, err := dates.Parse(today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reference date")
	}
	sunday := startOfWeek(t)
	saturday := sunday.AddDate(0, 0, 6)
	return s.EntriesInRange(schedule, dates.Format(sunday), dates.Format(saturday)), nil
}

// AcademicWeek returns the 1-based week number of date relative to the
// week containing the course start, or 0 when date precedes it.
func (s *ScheduleQueryService) AcademicWeek(cfg *models.CourseConfig, date string) (int, error) {
	start, err := dates.Parse(cfg.StartDate)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course start date")
	}
	t, err := dates.Parse(date)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date")
	}
	weekStart := startOfWeek(start)
	if t.Before(weekStart) {
		return 0, nil
	}
	days := int(t.Sub(weekStart).Hours() / 24)
	return days/7 + 1, nil
}

// SemesterProgress returns how far the reference date sits through the
// course range as a fraction in [0, 1].
func (s *ScheduleQueryService) SemesterProgress(cfg *models.CourseConfig, today string) (float64, error) {
	start, err := dates.Parse(cfg.StartDate)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course start date")
	}
	end, err := dates.Parse(cfg.EndDate)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course end date")
	}
	t, err := dates.Parse(today)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reference date")
	}
	total := end.Sub(start).Hours() / 24
	if total <= 0 {
		return 1, nil
	}
	elapsed := t.Sub(start).Hours() / 24
	return math.Min(1, math.Max(0, elapsed/total)), nil
}

// GroupByWeek buckets a section's entries by academic week number.
func (s *ScheduleQueryService) GroupByWeek(cfg *models.CourseConfig, entries []models.ScheduleEntry) (map[int][]models.ScheduleEntry, error) {
	weeks := make(map[int][]models.ScheduleEntry)
	for _, entry := range entries {
		week, err := s.AcademicWeek(cfg, entry.Date)
		if err != nil {
			return nil, err
		}
		weeks[week] = append(weeks[week], entry)
	}
	return weeks, nil
}

// UnassignedMeetings returns non-cancelled entries with neither lecture
// nor lab content attached, the gaps a course author still has to fill.
func (s *ScheduleQueryService) UnassignedMeetings(schedule *models.CourseSchedule) []models.ScheduleEntry {
	matches := make([]models.ScheduleEntry, 0)
	for _, entry := range schedule.AllEntries {
		if !entry.IsCancelled && entry.Lecture == nil && entry.Lab == nil {
			matches = append(matches, entry)
		}
	}
	return matches
}

// LectureOverlap records two lectures claiming the same date for the same
// section; only the first in configuration order is ever shown.
type LectureOverlap struct {
	Date      string `json:"date"`
	SectionID string `json:"sectionId"`
	ShownID   string `json:"shownId"`
	ShadowID  string `json:"shadowId"`
}

// LectureOverlaps reports every lecture shadowed by an earlier one on the
// same date and section.
func (s *ScheduleQueryService) LectureOverlaps(cfg *models.CourseConfig) []LectureOverlap {
	overlaps := make([]LectureOverlap, 0)
	for _, section := range cfg.Sections {
		shown := make(map[string]string)
		for _, lec := range cfg.Lectures {
			if !appliesToSection(lec.Sections, section.ID) {
				continue
			}
			for _, date := range lec.Dates {
				if prior, ok := shown[date]; ok {
					overlaps = append(overlaps, LectureOverlap{
						Date:      date,
						SectionID: section.ID,
						ShownID:   prior,
						ShadowID:  lec.LectureID,
					})
					continue
				}
				shown[date] = lec.LectureID
			}
		}
	}
	return overlaps
}

// Stats computes headline numbers for a generated schedule.
func (s *ScheduleQueryService) Stats(schedule *models.CourseSchedule) models.CourseStats {
	cfg := schedule.Config

	bySection := make(map[string]int, len(schedule.ScheduleBySection))
	for id, entries := range schedule.ScheduleBySection {
		bySection[id] = len(entries)
	}
	for id, entries := range schedule.LabScheduleBySection {
		bySection[id] = len(entries)
	}

	weeks := 0
	if start, err := dates.Parse(cfg.StartDate); err == nil {
		if end, err := dates.Parse(cfg.EndDate); err == nil && !end.Before(start) {
			days := int(end.Sub(start).Hours()/24) + 1
			weeks = (days + 6) / 7
		}
	}

	avg := 0.0
	if weeks > 0 {
		avg = float64(len(schedule.AllEntries)) / float64(weeks)
	}

	return models.CourseStats{
		TotalMeetings:          len(schedule.AllEntries),
		MeetingsBySection:      bySection,
		TotalLectures:          len(cfg.Lectures),
		TotalAssignments:       len(cfg.Assignments),
		TotalHolidays:          len(cfg.Holidays),
		CourseWeeks:            weeks,
		AverageMeetingsPerWeek: avg,
	}
}

// startOfWeek returns the Sunday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}
