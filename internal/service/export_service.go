package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/pkg/dates"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
	"github.com/classasaurus/coursegen/pkg/export"
)

// icsTimestamp is the floating local date-time layout used in calendar
// output. No UTC conversion is applied; consuming calendar apps pin the
// times to the calendar's declared timezone.
const icsTimestamp = "20060102T150405"

// ExportService renders a generated schedule into the formats served to
// students: iCalendar feeds, markdown tables, CSV, PDF handouts, and raw
// JSON.
type ExportService struct {
	uidDomain string
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService creates an export service. uidDomain scopes iCalendar
// event UIDs so feeds from different deployments never collide.
func NewExportService(uidDomain string, logger *zap.Logger) *ExportService {
	if uidDomain == "" {
		uidDomain = "coursegen"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		uidDomain: uidDomain,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// RenderICS produces an iCalendar feed for one section, or for every
// section when sectionID is empty. Cancelled meetings are omitted.
func (s *ExportService) RenderICS(schedule *models.CourseSchedule, sectionID string) ([]byte, error) {
	entries, err := s.entriesFor(schedule, sectionID)
	if err != nil {
		return nil, err
	}
	cfg := schedule.Config

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//coursegen//schedule//EN")
	cal.SetXWRCalName(fmt.Sprintf("%s %s", cfg.CourseCode, cfg.Semester))
	if cfg.Timezone != "" {
		cal.SetXWRTimezone(cfg.Timezone)
	}

	now := time.Now()
	for _, entry := range entries {
		if entry.IsCancelled {
			continue
		}
		uid := fmt.Sprintf("%s-%s-%d@%s", entry.Date, entry.SectionID, entry.MeetingNumber, s.uidDomain)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now)

		start, err := localTimestamp(entry.Date, entry.Meeting.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := localTimestamp(entry.Date, entry.Meeting.EndTime)
		if err != nil {
			return nil, err
		}
		// Floating local times, deliberately without a Z suffix.
		event.SetProperty(ics.ComponentPropertyDtStart, start)
		event.SetProperty(ics.ComponentPropertyDtEnd, end)

		event.SetSummary(fmt.Sprintf("%s: %s", cfg.CourseCode, entryTopic(entry)))
		if entry.Meeting.Location != "" {
			event.SetLocation(entry.Meeting.Location)
		}
		if desc := entryDescription(entry); desc != "" {
			event.SetDescription(desc)
		}
	}

	return []byte(cal.Serialize()), nil
}

// RenderMarkdown produces the schedule table embedded in course sites.
// Cancelled rows keep their meeting number with the topic struck through
// and the holiday named.
func (s *ExportService) RenderMarkdown(schedule *models.CourseSchedule, sectionID string) ([]byte, error) {
	entries, err := s.entriesFor(schedule, sectionID)
	if err != nil {
		return nil, err
	}
	cfg := schedule.Config

	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s Schedule\n\n", cfg.CourseCode, cfg.Semester)
	b.WriteString("| # | Date | Day | Topic | Notes |\n")
	b.WriteString("|---|------|-----|-------|-------|\n")

	for _, entry := range entries {
		topic := entryTopic(entry)
		notes := entry.Notes
		if entry.IsCancelled {
			notes = "No class"
			if entry.Holiday != nil {
				notes = entry.Holiday.Name
			}
			if topic != "" {
				topic = fmt.Sprintf("~~%s~~", topic)
			}
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			entry.MeetingNumber, shortDate(entry.Date), entry.DayOfWeek, topic, notes)
	}

	return []byte(b.String()), nil
}

// RenderCSV produces a flat tabular export of the schedule.
func (s *ExportService) RenderCSV(schedule *models.CourseSchedule, sectionID string) ([]byte, error) {
	entries, err := s.entriesFor(schedule, sectionID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(scheduleDataset(entries))
}

// RenderPDF produces a printable schedule handout.
func (s *ExportService) RenderPDF(schedule *models.CourseSchedule, sectionID string) ([]byte, error) {
	entries, err := s.entriesFor(schedule, sectionID)
	if err != nil {
		return nil, err
	}
	cfg := schedule.Config
	title := fmt.Sprintf("%s %s Schedule", cfg.CourseCode, cfg.Semester)
	return s.pdf.Render(scheduleDataset(entries), title)
}

// RenderJSON serializes the full schedule with indentation, the format
// consumed by downstream site builds.
func (s *ExportService) RenderJSON(schedule *models.CourseSchedule) ([]byte, error) {
	data, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to serialize schedule")
	}
	return data, nil
}

// entriesFor selects the export scope: one section's entries, or the
// merged chronological list when sectionID is empty.
func (s *ExportService) entriesFor(schedule *models.CourseSchedule, sectionID string) ([]models.ScheduleEntry, error) {
	if schedule == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule is required")
	}
	if sectionID == "" {
		return schedule.AllEntries, nil
	}
	entries := schedule.EntriesForSection(sectionID)
	if entries == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown section %q", sectionID))
	}
	return entries, nil
}

func scheduleDataset(entries []models.ScheduleEntry) export.Dataset {
	headers := []string{"Meeting", "Date", "Day", "Section", "Start", "End", "Location", "Topic", "Status"}
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		status := "scheduled"
		if entry.IsCancelled {
			status = "cancelled"
			if entry.Holiday != nil {
				status = fmt.Sprintf("cancelled (%s)", entry.Holiday.Name)
			}
		}
		rows = append(rows, map[string]string{
			"Meeting":  fmt.Sprintf("%d", entry.MeetingNumber),
			"Date":     entry.Date,
			"Day":      string(entry.DayOfWeek),
			"Section":  entry.SectionID,
			"Start":    entry.Meeting.StartTime,
			"End":      entry.Meeting.EndTime,
			"Location": entry.Meeting.Location,
			"Topic":    entryTopic(entry),
			"Status":   status,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// entryTopic picks the display topic: lecture title, then lab title, then
// the meeting type.
func entryTopic(entry models.ScheduleEntry) string {
	if entry.Lecture != nil {
		if entry.Lecture.Title != "" {
			return entry.Lecture.Title
		}
		if len(entry.Lecture.Topics) > 0 {
			return strings.Join(entry.Lecture.Topics, ", ")
		}
		return entry.Lecture.LectureID
	}
	if entry.Lab != nil {
		return entry.Lab.Title
	}
	if entry.Meeting.Type != "" {
		return string(entry.Meeting.Type)
	}
	return ""
}

func entryDescription(entry models.ScheduleEntry) string {
	parts := make([]string, 0, 3)
	if entry.Lecture != nil && len(entry.Lecture.Topics) > 0 {
		parts = append(parts, "Topics: "+strings.Join(entry.Lecture.Topics, ", "))
	}
	if entry.Lab != nil && entry.Lab.URL != "" {
		parts = append(parts, "Lab: "+entry.Lab.URL)
	}
	if entry.Notes != "" {
		parts = append(parts, entry.Notes)
	}
	return strings.Join(parts, "\n")
}

// localTimestamp combines an ISO date and an HH:MM clock time into the
// iCalendar local form.
func localTimestamp(date, clock string) (string, error) {
	t, err := time.Parse(dates.ISODate+" 15:04", date+" "+clock)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("invalid meeting time %q on %s", clock, date))
	}
	return t.Format(icsTimestamp), nil
}

// shortDate renders an ISO date as "Jan 2" for markdown tables.
func shortDate(date string) string {
	t, err := dates.Parse(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}
