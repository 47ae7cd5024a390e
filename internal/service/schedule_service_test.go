package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/pkg/dates"
)

// mwfConfig is one MWF section over the week of 2026-01-12, the smallest
// config that exercises expansion, cancellation, and numbering together.
func mwfConfig() *models.CourseConfig {
	return &models.CourseConfig{
		CourseCode:  "CS101",
		CourseTitle: "Intro to Computer Science",
		Semester:    "Spring 2026",
		StartDate:   "2026-01-12",
		EndDate:     "2026-01-16",
		Timezone:    "America/New_York",
		Sections: []models.Section{
			{
				ID:       "001",
				Name:     "Section 001",
				TimeZone: "America/New_York",
				Meetings: []models.MeetingPattern{
					{
						Type:      models.MeetingLecture,
						Days:      []dates.Weekday{dates.Monday, dates.Wednesday, dates.Friday},
						StartTime: "09:00",
						EndTime:   "09:50",
						Location:  "Hall 12",
					},
				},
			},
		},
		Holidays: []models.Holiday{
			{Date: "2026-01-14", Name: "Reading Day", Type: models.HolidayReadingDay},
		},
	}
}

func TestGenerateExpandsWeeklyPatternWithCancellation(t *testing.T) {
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(mwfConfig())
	require.NoError(t, err)

	entries := schedule.ScheduleBySection["001"]
	require.Len(t, entries, 3)

	assert.Equal(t, "2026-01-12", entries[0].Date)
	assert.Equal(t, 1, entries[0].MeetingNumber)
	assert.False(t, entries[0].IsCancelled)

	assert.Equal(t, "2026-01-14", entries[1].Date)
	assert.Equal(t, 2, entries[1].MeetingNumber)
	assert.True(t, entries[1].IsCancelled)
	require.NotNil(t, entries[1].Holiday)
	assert.Equal(t, "Reading Day", entries[1].Holiday.Name)

	assert.Equal(t, "2026-01-16", entries[2].Date)
	assert.Equal(t, 3, entries[2].MeetingNumber)
	assert.False(t, entries[2].IsCancelled)
}

func TestGenerateInjectsOutOfPatternLabDate(t *testing.T) {
	cfg := mwfConfig()
	cfg.Labs = []models.Lab{
		{ID: "lab1", Title: "Setup Lab", Dates: []string{"2026-01-13"}},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	entries := schedule.ScheduleBySection["001"]
	require.Len(t, entries, 4)

	injected := entries[1]
	assert.Equal(t, "2026-01-13", injected.Date)
	assert.Equal(t, dates.Tuesday, injected.DayOfWeek)
	assert.Equal(t, 2, injected.MeetingNumber)
	require.NotNil(t, injected.Lab)
	assert.Equal(t, "lab1", injected.Lab.ID)
	// Injected occurrences reuse the section's first pattern.
	assert.Equal(t, "09:00", injected.Meeting.StartTime)

	// Numbering shifts for every later meeting.
	assert.Equal(t, 3, entries[2].MeetingNumber)
	assert.Equal(t, 4, entries[3].MeetingNumber)
}

func TestGenerateInjectionIgnoresDatesOutsideRange(t *testing.T) {
	cfg := mwfConfig()
	cfg.Lectures = []models.LectureMapping{
		{LectureID: "review", Dates: []string{"2026-02-02"}},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)
	assert.Len(t, schedule.ScheduleBySection["001"], 3)
}

func TestGenerateCourseWideHolidayWinsOverSectionHoliday(t *testing.T) {
	cfg := mwfConfig()
	cfg.Sections[0].AdditionalHolidays = []models.Holiday{
		{Date: "2026-01-14", Name: "Section Field Trip", Type: models.HolidayNoClass},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	entry := schedule.ScheduleBySection["001"][1]
	require.NotNil(t, entry.Holiday)
	assert.Equal(t, "Reading Day", entry.Holiday.Name)
}

func TestGenerateSectionHolidayAppliesOnlyToItsSection(t *testing.T) {
	cfg := mwfConfig()
	cfg.Sections = append(cfg.Sections, models.Section{
		ID:       "002",
		Name:     "Section 002",
		TimeZone: "America/New_York",
		Meetings: cfg.Sections[0].Meetings,
		AdditionalHolidays: []models.Holiday{
			{Date: "2026-01-16", Name: "Section Event", Type: models.HolidaySpecialEvent},
		},
	})
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	assert.False(t, schedule.ScheduleBySection["001"][2].IsCancelled)
	assert.True(t, schedule.ScheduleBySection["002"][2].IsCancelled)
}

func TestGenerateRangedHolidayCoversEveryDay(t *testing.T) {
	cfg := mwfConfig()
	cfg.Holidays = []models.Holiday{
		{Date: "2026-01-12", EndDate: "2026-01-14", Name: "Storm Closure", Type: models.HolidayNoClass},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	entries := schedule.ScheduleBySection["001"]
	require.Len(t, entries, 3)
	assert.True(t, entries[0].IsCancelled)
	assert.True(t, entries[1].IsCancelled)
	assert.False(t, entries[2].IsCancelled)
}

func TestGenerateLectureScopingByEmptySectionList(t *testing.T) {
	cfg := mwfConfig()
	cfg.Sections = append(cfg.Sections, models.Section{
		ID:       "002",
		Name:     "Section 002",
		TimeZone: "America/New_York",
		Meetings: cfg.Sections[0].Meetings,
	})
	cfg.Lectures = []models.LectureMapping{
		{LectureID: "l1", Title: "Intro", Dates: []string{"2026-01-12"}},
		{LectureID: "l2", Title: "Only 002", Dates: []string{"2026-01-16"}, Sections: []string{"002"}},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	// Empty sections list applies everywhere.
	require.NotNil(t, schedule.ScheduleBySection["001"][0].Lecture)
	require.NotNil(t, schedule.ScheduleBySection["002"][0].Lecture)

	// Scoped lecture binds only to its section.
	assert.Nil(t, schedule.ScheduleBySection["001"][2].Lecture)
	require.NotNil(t, schedule.ScheduleBySection["002"][2].Lecture)
	assert.Equal(t, "l2", schedule.ScheduleBySection["002"][2].Lecture.LectureID)
}

func TestGenerateFirstLectureWinsOnSharedDate(t *testing.T) {
	cfg := mwfConfig()
	cfg.Lectures = []models.LectureMapping{
		{LectureID: "first", Dates: []string{"2026-01-12"}},
		{LectureID: "second", Dates: []string{"2026-01-12"}},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	entry := schedule.ScheduleBySection["001"][0]
	require.NotNil(t, entry.Lecture)
	assert.Equal(t, "first", entry.Lecture.LectureID)
}

func TestGenerateMultiplePatternsSameDay(t *testing.T) {
	cfg := mwfConfig()
	cfg.Sections[0].Meetings = append(cfg.Sections[0].Meetings, models.MeetingPattern{
		Type:      models.MeetingRecitation,
		Days:      []dates.Weekday{dates.Monday},
		StartTime: "15:00",
		EndTime:   "15:50",
	})
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	entries := schedule.ScheduleBySection["001"]
	require.Len(t, entries, 4)
	assert.Equal(t, "2026-01-12", entries[0].Date)
	assert.Equal(t, "2026-01-12", entries[1].Date)
	assert.Equal(t, 1, entries[0].MeetingNumber)
	assert.Equal(t, 2, entries[1].MeetingNumber)
	assert.Equal(t, "09:00", entries[0].Meeting.StartTime)
	assert.Equal(t, "15:00", entries[1].Meeting.StartTime)
}

func TestGenerateLabSections(t *testing.T) {
	cfg := mwfConfig()
	cfg.LabSections = []models.LabSection{
		{
			ID:       "L01",
			Name:     "Lab L01",
			TimeZone: "America/New_York",
			Meetings: []models.MeetingPattern{
				{
					Type:      models.MeetingLab,
					Days:      []dates.Weekday{dates.Thursday},
					StartTime: "13:00",
					EndTime:   "14:50",
				},
			},
		},
	}
	cfg.Labs = []models.Lab{
		{ID: "lab1", Title: "Lab One", Dates: []string{"2026-01-15"}},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	require.NotNil(t, schedule.LabScheduleBySection)
	labEntries := schedule.LabScheduleBySection["L01"]
	require.Len(t, labEntries, 1)
	assert.Equal(t, "2026-01-15", labEntries[0].Date)
	require.NotNil(t, labEntries[0].Lab)
	assert.Nil(t, labEntries[0].Lecture)

	// Lab section entries participate in the merged list.
	assert.Len(t, schedule.AllEntries, 4)
}

func TestGenerateLabScheduleNilWithoutLabSections(t *testing.T) {
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(mwfConfig())
	require.NoError(t, err)
	assert.Nil(t, schedule.LabScheduleBySection)
}

func TestGenerateAllEntriesSortedByDate(t *testing.T) {
	cfg := mwfConfig()
	cfg.Sections = append(cfg.Sections, models.Section{
		ID:       "002",
		Name:     "Section 002",
		TimeZone: "America/New_York",
		Meetings: []models.MeetingPattern{
			{Days: []dates.Weekday{dates.Tuesday, dates.Thursday}, StartTime: "11:00", EndTime: "11:50"},
		},
	})
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	for i := 1; i < len(schedule.AllEntries); i++ {
		assert.LessOrEqual(t, schedule.AllEntries[i-1].Date, schedule.AllEntries[i].Date)
	}
}

func TestGenerateImportantDates(t *testing.T) {
	cfg := mwfConfig()
	cfg.Holidays = append(cfg.Holidays, models.Holiday{
		Date: "2026-01-16", EndDate: "2026-01-16", Name: "Final Exam", Type: models.HolidayExamPeriod,
	})
	cfg.Assignments = []models.Assignment{
		{ID: "hw2", Title: "HW 2", Type: models.AssignmentHomework, AssignedDate: "2026-01-13", DueDate: "2026-01-16"},
		{ID: "hw1", Title: "HW 1", Type: models.AssignmentHomework, AssignedDate: "2026-01-12", DueDate: "2026-01-14"},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	important := schedule.ImportantDates
	assert.Equal(t, cfg.StartDate, important.StartDate)
	assert.Equal(t, cfg.EndDate, important.EndDate)
	assert.Equal(t, []string{"2026-01-16"}, important.ExamDates)
	// Due dates keep configuration order.
	assert.Equal(t, []string{"2026-01-16", "2026-01-14"}, important.AssignmentDueDates)
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := mwfConfig()
	cfg.Labs = []models.Lab{{ID: "lab1", Title: "Lab", Dates: []string{"2026-01-13"}}}
	svc := NewScheduleService(nil)

	first, err := svc.Generate(cfg)
	require.NoError(t, err)
	second, err := svc.Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, first.AllEntries, second.AllEntries)
	assert.Equal(t, first.ScheduleBySection, second.ScheduleBySection)
	assert.Equal(t, first.ImportantDates, second.ImportantDates)
}

func TestGenerateNilConfig(t *testing.T) {
	svc := NewScheduleService(nil)

	_, err := svc.Generate(nil)
	assert.Error(t, err)
}

func TestGenerateSectionRangeOverride(t *testing.T) {
	cfg := mwfConfig()
	cfg.Sections[0].StartDate = "2026-01-14"
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	entries := schedule.ScheduleBySection["001"]
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-01-14", entries[0].Date)
	assert.Equal(t, 1, entries[0].MeetingNumber)
}

func TestGenerateSectionWithoutPatternsGetsInjectionsOnly(t *testing.T) {
	cfg := mwfConfig()
	cfg.Sections[0].Meetings = nil
	cfg.Lectures = []models.LectureMapping{
		{LectureID: "kickoff", Dates: []string{"2026-01-13"}},
	}
	svc := NewScheduleService(nil)

	schedule, err := svc.Generate(cfg)
	require.NoError(t, err)

	entries := schedule.ScheduleBySection["001"]
	require.Len(t, entries, 1)
	assert.Equal(t, "2026-01-13", entries[0].Date)
	assert.Equal(t, "00:00", entries[0].Meeting.StartTime)
	assert.Equal(t, "00:00", entries[0].Meeting.EndTime)
}
