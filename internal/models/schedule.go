package models

import "github.com/classasaurus/coursegen/pkg/dates"

// ScheduleEntry is one concrete meeting occurrence, derived on every
// generation call and never persisted.
type ScheduleEntry struct {
	Date          string         `json:"date"`
	DayOfWeek     dates.Weekday  `json:"dayOfWeek"`
	MeetingNumber int            `json:"meetingNumber"`
	SectionID     string         `json:"sectionId"`
	SectionName   string         `json:"sectionName"`
	Meeting       MeetingPattern `json:"meeting"`

	Lecture *LectureMapping `json:"lecture,omitempty"`
	Lab     *Lab            `json:"lab,omitempty"`
	Holiday *Holiday        `json:"holiday,omitempty"`

	// IsCancelled is true iff a holiday covers Date.
	IsCancelled bool   `json:"isCancelled"`
	Notes       string `json:"notes,omitempty"`
}

// ImportantDates summarizes the milestones of a generated schedule.
// ExamDates and AssignmentDueDates are reported in configuration order,
// neither deduplicated nor sorted.
type ImportantDates struct {
	StartDate          string    `json:"startDate"`
	EndDate            string    `json:"endDate"`
	Holidays           []Holiday `json:"holidays"`
	ExamDates          []string  `json:"examDates"`
	AssignmentDueDates []string  `json:"assignmentDueDates"`
}

// CourseSchedule is the complete derived calendar for a course.
// LabScheduleBySection is nil when no lab sections are configured, which
// callers must distinguish from an empty map.
type CourseSchedule struct {
	Config               *CourseConfig              `json:"config"`
	ScheduleBySection    map[string][]ScheduleEntry `json:"scheduleBySection"`
	LabScheduleBySection map[string][]ScheduleEntry `json:"labScheduleBySection,omitempty"`
	AllEntries           []ScheduleEntry            `json:"allEntries"`
	ImportantDates       ImportantDates             `json:"importantDates"`
}

// EntriesForSection returns the ordered entries for a lecture or lab
// section id, or nil when the id is unknown.
func (s *CourseSchedule) EntriesForSection(sectionID string) []ScheduleEntry {
	if entries, ok := s.ScheduleBySection[sectionID]; ok {
		return entries
	}
	if s.LabScheduleBySection != nil {
		if entries, ok := s.LabScheduleBySection[sectionID]; ok {
			return entries
		}
	}
	return nil
}

// CourseStats aggregates headline numbers about a generated schedule.
type CourseStats struct {
	TotalMeetings          int            `json:"totalMeetings"`
	MeetingsBySection      map[string]int `json:"meetingsBySection"`
	TotalLectures          int            `json:"totalLectures"`
	TotalAssignments       int            `json:"totalAssignments"`
	TotalHolidays          int            `json:"totalHolidays"`
	CourseWeeks            int            `json:"courseWeeks"`
	AverageMeetingsPerWeek float64        `json:"averageMeetingsPerWeek"`
}
