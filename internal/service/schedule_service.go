package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/pkg/dates"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

// ScheduleService derives concrete, date-resolved class calendars from a
// course configuration. Generation is pure over its input: every call
// allocates fresh output and never mutates the config, so the service is
// safe for concurrent use.
type ScheduleService struct {
	logger *zap.Logger
}

// NewScheduleService constructs the generator.
func NewScheduleService(logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{logger: logger}
}

// Generate expands every section's weekly meeting patterns over the
// course date range, injects out-of-pattern lecture and lab dates, marks
// holiday cancellations, and merges the per-section results into one
// chronologically ordered schedule.
func (s *ScheduleService) Generate(cfg *models.CourseConfig) (*models.CourseSchedule, error) {
	if cfg == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course config is nil")
	}

	schedule := &models.CourseSchedule{
		Config:            cfg,
		ScheduleBySection: make(map[string][]models.ScheduleEntry, len(cfg.Sections)),
		AllEntries:        make([]models.ScheduleEntry, 0),
	}

	for _, section := range cfg.Sections {
		entries := s.buildSectionSchedule(section, cfg)
		schedule.ScheduleBySection[section.ID] = entries
		schedule.AllEntries = append(schedule.AllEntries, entries...)
	}

	if len(cfg.LabSections) > 0 {
		schedule.LabScheduleBySection = make(map[string][]models.ScheduleEntry, len(cfg.LabSections))
		for _, labSection := range cfg.LabSections {
			entries := s.buildLabSectionSchedule(labSection, cfg)
			if len(entries) == 0 {
				s.logger.Warn("lab section produced no schedule entries",
					zap.String("labSectionId", labSection.ID))
			}
			schedule.LabScheduleBySection[labSection.ID] = entries
			schedule.AllEntries = append(schedule.AllEntries, entries...)
		}
	} else {
		s.logger.Debug("no lab sections configured")
	}

	// Stable sort keeps section-then-lab relative order for same-date
	// entries.
	sort.SliceStable(schedule.AllEntries, func(i, j int) bool {
		return schedule.AllEntries[i].Date < schedule.AllEntries[j].Date
	})

	examDates := make([]string, 0)
	for _, holiday := range cfg.Holidays {
		if holiday.Type == models.HolidayExamPeriod {
			examDates = append(examDates, holiday.Date)
		}
	}
	dueDates := make([]string, 0, len(cfg.Assignments))
	for _, assignment := range cfg.Assignments {
		dueDates = append(dueDates, assignment.DueDate)
	}

	schedule.ImportantDates = models.ImportantDates{
		StartDate:          cfg.StartDate,
		EndDate:            cfg.EndDate,
		Holidays:           cfg.Holidays,
		ExamDates:          examDates,
		AssignmentDueDates: dueDates,
	}

	s.logger.Info("schedule generated",
		zap.Int("sections", len(cfg.Sections)),
		zap.Int("labSections", len(cfg.LabSections)),
		zap.Int("entries", len(schedule.AllEntries)))

	return schedule, nil
}

// buildSectionSchedule assembles the ordered entries for one lecture
// section: weekly expansion, content injection, holiday resolution,
// lecture and lab association, sequential meeting numbering.
func (s *ScheduleService) buildSectionSchedule(section models.Section, cfg *models.CourseConfig) []models.ScheduleEntry {
	holidays := mergeHolidays(cfg.Holidays, section.AdditionalHolidays)
	start, end := cfg.SectionRange(section)

	meetingDates := expandMeetings(section, start, end)
	injectLectureDates(meetingDates, section, start, end, cfg.Lectures)
	injectLabDates(meetingDates, section, start, end, cfg.Labs)

	return s.assemble(section, meetingDates, holidays, cfg.Lectures, cfg.Labs)
}

// buildLabSectionSchedule is the lab-only specialization: it associates
// lab content but never lectures.
func (s *ScheduleService) buildLabSectionSchedule(labSection models.LabSection, cfg *models.CourseConfig) []models.ScheduleEntry {
	holidays := mergeHolidays(cfg.Holidays, labSection.AdditionalHolidays)
	start, end := cfg.SectionRange(labSection)

	meetingDates := expandMeetings(labSection, start, end)
	injectLabDates(meetingDates, labSection, start, end, cfg.Labs)

	return s.assemble(labSection, meetingDates, holidays, nil, cfg.Labs)
}

// assemble walks the date->patterns map in date order and emits one entry
// per (date, pattern) pair. Meeting numbers advance per emitted entry,
// cancelled or not.
func (s *ScheduleService) assemble(
	section models.Section,
	meetingDates map[string][]models.MeetingPattern,
	holidays []models.Holiday,
	lectures []models.LectureMapping,
	labs []models.Lab,
) []models.ScheduleEntry {
	sortedDates := make([]string, 0, len(meetingDates))
	for date := range meetingDates {
		sortedDates = append(sortedDates, date)
	}
	sort.Strings(sortedDates)

	entries := make([]models.ScheduleEntry, 0, len(sortedDates))
	meetingNumber := 1

	for _, date := range sortedDates {
		weekday, err := dates.WeekdayOf(date)
		if err != nil {
			// Dates originate from Format or from validated config;
			// an unparsable one indicates a config the validator
			// never saw.
			s.logger.Warn("skipping unparsable meeting date",
				zap.String("sectionId", section.ID), zap.String("date", date))
			continue
		}
		holiday := resolveHoliday(date, holidays)
		lecture := findLectureForDate(date, section.ID, lectures)
		lab := findLabForDate(date, section.ID, labs)

		for _, meeting := range meetingDates[date] {
			entries = append(entries, models.ScheduleEntry{
				Date:          date,
				DayOfWeek:     weekday,
				MeetingNumber: meetingNumber,
				SectionID:     section.ID,
				SectionName:   section.Name,
				Meeting:       meeting,
				Lecture:       lecture,
				Lab:           lab,
				Holiday:       holiday,
				IsCancelled:   holiday != nil,
			})
			meetingNumber++
		}
	}

	return entries
}

// expandMeetings sweeps every day in [start, end] and records, per date,
// each of the section's patterns whose weekday set contains that day.
// Holiday-covered dates are included: cancellation is recorded later so
// meeting numbers count all nominally scheduled occurrences.
func expandMeetings(section models.Section, start, end string) map[string][]models.MeetingPattern {
	meetingDates := make(map[string][]models.MeetingPattern)

	days, err := dates.IterateDays(start, end)
	if err != nil {
		return meetingDates
	}

	for _, day := range days {
		weekday, err := dates.WeekdayOf(day)
		if err != nil {
			continue
		}
		for _, meeting := range section.Meetings {
			if meetingOnWeekday(meeting, weekday) {
				meetingDates[day] = append(meetingDates[day], meeting)
			}
		}
	}

	return meetingDates
}

func meetingOnWeekday(meeting models.MeetingPattern, weekday dates.Weekday) bool {
	for _, day := range meeting.Days {
		if day == weekday {
			return true
		}
	}
	return false
}

// injectLectureDates inserts placeholder occurrences for lectures whose
// dates fall inside the section's range but outside its weekly rhythm
// (make-up days, irregular schedules).
func injectLectureDates(
	meetingDates map[string][]models.MeetingPattern,
	section models.Section,
	start, end string,
	lectures []models.LectureMapping,
) {
	for _, lecture := range lectures {
		if !appliesToSection(lecture.Sections, section.ID) {
			continue
		}
		for _, date := range lecture.Dates {
			if !dates.WithinInclusive(date, start, end) {
				continue
			}
			if _, ok := meetingDates[date]; !ok {
				meetingDates[date] = []models.MeetingPattern{placeholderPattern(section)}
			}
		}
	}
}

// injectLabDates is the lab counterpart of injectLectureDates.
func injectLabDates(
	meetingDates map[string][]models.MeetingPattern,
	section models.Section,
	start, end string,
	labs []models.Lab,
) {
	for _, lab := range labs {
		if !appliesToSection(lab.Sections, section.ID) {
			continue
		}
		for _, date := range lab.Dates {
			if !dates.WithinInclusive(date, start, end) {
				continue
			}
			if _, ok := meetingDates[date]; !ok {
				meetingDates[date] = []models.MeetingPattern{placeholderPattern(section)}
			}
		}
	}
}

// placeholderPattern synthesizes the pattern for an injected occurrence,
// reusing the section's first declared pattern as a template. Sections
// with no patterns fall back to a zero-duration default.
func placeholderPattern(section models.Section) models.MeetingPattern {
	if len(section.Meetings) > 0 {
		return section.Meetings[0]
	}
	return models.MeetingPattern{StartTime: "00:00", EndTime: "00:00"}
}

// resolveHoliday returns the first holiday in list order covering date,
// or nil. When course-wide and section-specific holidays overlap, the
// course-wide entry wins because it precedes in the merged list.
func resolveHoliday(date string, holidays []models.Holiday) *models.Holiday {
	for i := range holidays {
		holiday := holidays[i]
		if holiday.EndDate != "" {
			if dates.WithinInclusive(date, holiday.Date, holiday.EndDate) {
				return &holiday
			}
			continue
		}
		if date == holiday.Date {
			return &holiday
		}
	}
	return nil
}

// findLectureForDate returns the first lecture in list order scheduled on
// date and applicable to sectionID, or nil.
func findLectureForDate(date, sectionID string, lectures []models.LectureMapping) *models.LectureMapping {
	for i := range lectures {
		lecture := lectures[i]
		if !containsDate(lecture.Dates, date) {
			continue
		}
		if appliesToSection(lecture.Sections, sectionID) {
			return &lecture
		}
	}
	return nil
}

// findLabForDate is the lab counterpart of findLectureForDate.
func findLabForDate(date, sectionID string, labs []models.Lab) *models.Lab {
	for i := range labs {
		lab := labs[i]
		if !containsDate(lab.Dates, date) {
			continue
		}
		if appliesToSection(lab.Sections, sectionID) {
			return &lab
		}
	}
	return nil
}

// appliesToSection implements the scoping rule: an empty section list
// applies universally.
func appliesToSection(sections []string, sectionID string) bool {
	if len(sections) == 0 {
		return true
	}
	for _, id := range sections {
		if id == sectionID {
			return true
		}
	}
	return false
}

func containsDate(list []string, date string) bool {
	for _, d := range list {
		if d == date {
			return true
		}
	}
	return false
}

// mergeHolidays concatenates course-wide holidays before section-specific
// ones; resolution order depends on it.
func mergeHolidays(courseWide, sectionSpecific []models.Holiday) []models.Holiday {
	merged := make([]models.Holiday, 0, len(courseWide)+len(sectionSpecific))
	merged = append(merged, courseWide...)
	merged = append(merged, sectionSpecific...)
	return merged
}
