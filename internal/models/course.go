package models

import "github.com/classasaurus/coursegen/pkg/dates"

// MeetingType classifies a recurring meeting pattern.
type MeetingType string

const (
	MeetingLecture    MeetingType = "lecture"
	MeetingLab        MeetingType = "lab"
	MeetingRecitation MeetingType = "recitation"
	MeetingStudio     MeetingType = "studio"
	MeetingOther      MeetingType = "other"
)

// MeetingPattern is a weekly recurrence rule within a section.
type MeetingPattern struct {
	Type      MeetingType     `yaml:"type,omitempty" json:"type,omitempty"`
	Days      []dates.Weekday `yaml:"days" json:"days" validate:"required,min=1"`
	StartTime string          `yaml:"startTime" json:"startTime" validate:"required"`
	EndTime   string          `yaml:"endTime" json:"endTime" validate:"required"`
	Location  string          `yaml:"location,omitempty" json:"location,omitempty"`
	Notes     string          `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Section is a registered recurring class meeting series. Defined once in
// configuration and consumed read-only by the generator.
type Section struct {
	ID          string           `yaml:"id" json:"id" validate:"required"`
	Name        string           `yaml:"name" json:"name" validate:"required"`
	CRN         string           `yaml:"crn,omitempty" json:"crn,omitempty"`
	Meetings    []MeetingPattern `yaml:"meetings" json:"meetings"`
	TimeZone    string           `yaml:"timeZone" json:"timeZone" validate:"required"`
	Instructors []string         `yaml:"instructors,omitempty" json:"instructors,omitempty"`

	// StartDate/EndDate override the course-wide range when set.
	StartDate string `yaml:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   string `yaml:"endDate,omitempty" json:"endDate,omitempty"`

	// AdditionalHolidays are merged after the course-wide holiday list.
	AdditionalHolidays []Holiday `yaml:"additionalHolidays,omitempty" json:"additionalHolidays,omitempty"`
}

// LabSection has the same shape as Section but carries lab meetings.
type LabSection = Section

// HolidayType classifies a calendar override.
type HolidayType string

const (
	HolidayUniversity   HolidayType = "holiday"
	HolidayBreak        HolidayType = "break"
	HolidayReadingDay   HolidayType = "reading-day"
	HolidayExamPeriod   HolidayType = "exam-period"
	HolidayNoClass      HolidayType = "no-class"
	HolidaySpecialEvent HolidayType = "special-event"
	HolidayDeadline     HolidayType = "deadline"
)

// Holiday is a single-day or ranged calendar override. A date is covered
// when it falls within [Date, EndDate] inclusive (single day when EndDate
// is empty).
type Holiday struct {
	Date    string      `yaml:"date" json:"date" validate:"required"`
	EndDate string      `yaml:"endDate,omitempty" json:"endDate,omitempty"`
	Name    string      `yaml:"name" json:"name" validate:"required"`
	Type    HolidayType `yaml:"type" json:"type" validate:"required"`
	Notes   string      `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// LectureMaterials links supporting resources to a lecture.
type LectureMaterials struct {
	Slides            string   `yaml:"slides,omitempty" json:"slides,omitempty"`
	Recording         string   `yaml:"recording,omitempty" json:"recording,omitempty"`
	AdditionalReading []string `yaml:"additionalReading,omitempty" json:"additionalReading,omitempty"`
	Code              []string `yaml:"code,omitempty" json:"code,omitempty"`
}

// LectureMapping associates lecture content with one or more calendar
// dates. An empty Sections list means the lecture applies to every
// section.
type LectureMapping struct {
	LectureID string            `yaml:"lectureId" json:"lectureId" validate:"required"`
	Title     string            `yaml:"title,omitempty" json:"title,omitempty"`
	Dates     []string          `yaml:"dates" json:"dates" validate:"required,min=1"`
	Sections  []string          `yaml:"sections,omitempty" json:"sections,omitempty"`
	Topics    []string          `yaml:"topics,omitempty" json:"topics,omitempty"`
	Notes     string            `yaml:"notes,omitempty" json:"notes,omitempty"`
	Materials *LectureMaterials `yaml:"materials,omitempty" json:"materials,omitempty"`
}

// Lab associates lab content with calendar dates, with the same section
// scoping rule as LectureMapping.
type Lab struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Dates       []string `yaml:"dates" json:"dates" validate:"required,min=1"`
	Sections    []string `yaml:"sections,omitempty" json:"sections,omitempty"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Points      float64  `yaml:"points,omitempty" json:"points,omitempty"`
	Notes       string   `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// AssignmentType classifies graded work.
type AssignmentType string

const (
	AssignmentHomework AssignmentType = "homework"
	AssignmentProject  AssignmentType = "project"
	AssignmentLab      AssignmentType = "lab"
	AssignmentQuiz     AssignmentType = "quiz"
	AssignmentExam     AssignmentType = "exam"
	AssignmentReading  AssignmentType = "reading"
)

// DefaultDueTime applies when an assignment omits DueTime.
const DefaultDueTime = "23:59"

// Assignment is graded work tied to the calendar only via its due date.
type Assignment struct {
	ID           string         `yaml:"id" json:"id" validate:"required"`
	Title        string         `yaml:"title" json:"title" validate:"required"`
	Type         AssignmentType `yaml:"type" json:"type" validate:"required"`
	AssignedDate string         `yaml:"assignedDate" json:"assignedDate" validate:"required"`
	DueDate      string         `yaml:"dueDate" json:"dueDate" validate:"required"`
	TimeZone     string         `yaml:"timeZone,omitempty" json:"timeZone,omitempty"`
	DueTime      string         `yaml:"dueTime,omitempty" json:"dueTime,omitempty"`
	Points       float64        `yaml:"points,omitempty" json:"points,omitempty"`
	URL          string         `yaml:"url,omitempty" json:"url,omitempty"`
	CanvasID     string         `yaml:"canvasId,omitempty" json:"canvasId,omitempty"`
	Notes        string         `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// EffectiveDueTime returns DueTime or the 23:59 default.
func (a Assignment) EffectiveDueTime() string {
	if a.DueTime == "" {
		return DefaultDueTime
	}
	return a.DueTime
}

// ScheduleNote is an announcement banner attached to schedule weeks.
type ScheduleNote struct {
	Message     string   `yaml:"message" json:"message" validate:"required"`
	Weeks       []int    `yaml:"weeks" json:"weeks" validate:"required,min=1"`
	Sections    []string `yaml:"sections,omitempty" json:"sections,omitempty"`
	LabSections []string `yaml:"labSections,omitempty" json:"labSections,omitempty"`
	Status      string   `yaml:"status,omitempty" json:"status,omitempty"`
	Date        string   `yaml:"date,omitempty" json:"date,omitempty"`
}

// CanvasSyncSettings toggles which content kinds are pushed to Canvas.
type CanvasSyncSettings struct {
	SyncAssignments   bool `yaml:"syncAssignments" json:"syncAssignments"`
	SyncGrades        bool `yaml:"syncGrades" json:"syncGrades"`
	SyncAnnouncements bool `yaml:"syncAnnouncements" json:"syncAnnouncements"`
}

// CanvasConfig describes the Canvas LMS course this configuration syncs to.
type CanvasConfig struct {
	CanvasURL      string              `yaml:"canvasUrl" json:"canvasUrl"`
	CourseID       string              `yaml:"courseId" json:"courseId"`
	EnableSync     bool                `yaml:"enableSync" json:"enableSync"`
	APITokenEnvVar string              `yaml:"apiTokenEnvVar,omitempty" json:"apiTokenEnvVar,omitempty"`
	SyncSettings   *CanvasSyncSettings `yaml:"syncSettings,omitempty" json:"syncSettings,omitempty"`
}

// OfficeHours describes one instructor's office hour block.
type OfficeHours struct {
	Instructor string `yaml:"instructor" json:"instructor"`
	Schedule   string `yaml:"schedule" json:"schedule"`
	Location   string `yaml:"location" json:"location"`
	BookingURL string `yaml:"bookingUrl,omitempty" json:"bookingUrl,omitempty"`
}

// CourseMetadata carries descriptive fields that never influence the
// generated schedule.
type CourseMetadata struct {
	Department            string        `yaml:"department,omitempty" json:"department,omitempty"`
	Credits               int           `yaml:"credits,omitempty" json:"credits,omitempty"`
	Prerequisites         []string      `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Description           string        `yaml:"description,omitempty" json:"description,omitempty"`
	MechanicalDescription string        `yaml:"mechanicalDescription,omitempty" json:"mechanicalDescription,omitempty"`
	Syllabus              string        `yaml:"syllabus,omitempty" json:"syllabus,omitempty"`
	OfficeHours           []OfficeHours `yaml:"officeHours,omitempty" json:"officeHours,omitempty"`
}

// CourseConfig is the root course definition parsed from the course
// configuration file. The generator consumes it read-only.
type CourseConfig struct {
	CourseCode   string `yaml:"courseCode" json:"courseCode" validate:"required"`
	CourseTitle  string `yaml:"courseTitle" json:"courseTitle" validate:"required"`
	Semester     string `yaml:"semester" json:"semester" validate:"required"`
	AcademicYear string `yaml:"academicYear,omitempty" json:"academicYear,omitempty"`
	StartDate    string `yaml:"startDate" json:"startDate" validate:"required"`
	EndDate      string `yaml:"endDate" json:"endDate" validate:"required"`
	Timezone     string `yaml:"timezone,omitempty" json:"timezone,omitempty"`

	Sections    []Section    `yaml:"sections" json:"sections" validate:"required,min=1"`
	LabSections []LabSection `yaml:"labSections,omitempty" json:"labSections,omitempty"`

	Holidays    []Holiday        `yaml:"holidays" json:"holidays"`
	Lectures    []LectureMapping `yaml:"lectures" json:"lectures"`
	Labs        []Lab            `yaml:"labs,omitempty" json:"labs,omitempty"`
	Assignments []Assignment     `yaml:"assignments,omitempty" json:"assignments,omitempty"`

	ScheduleNotes []ScheduleNote  `yaml:"scheduleNotes,omitempty" json:"scheduleNotes,omitempty"`
	Canvas        *CanvasConfig   `yaml:"canvas,omitempty" json:"canvas,omitempty"`
	Metadata      *CourseMetadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// SectionRange resolves a section's effective date range, falling back to
// the course-wide range.
func (c *CourseConfig) SectionRange(s Section) (start, end string) {
	start = c.StartDate
	end = c.EndDate
	if s.StartDate != "" {
		start = s.StartDate
	}
	if s.EndDate != "" {
		end = s.EndDate
	}
	return start, end
}

// TimezoneFor returns the section's declared zone, falling back to the
// course-wide timezone.
func (c *CourseConfig) TimezoneFor(s Section) string {
	if s.TimeZone != "" {
		return s.TimeZone
	}
	return c.Timezone
}
