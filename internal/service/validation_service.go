package service

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/pkg/dates"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

var (
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockPattern   = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ValidationService checks a course configuration before schedule
// generation. Struct tags catch missing fields; the cross-field checks
// catch the mistakes tags cannot express, like reversed date ranges and
// dangling section references.
type ValidationService struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewValidationService creates a validation service instance.
func NewValidationService(validate *validator.Validate, logger *zap.Logger) *ValidationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValidationService{validate: validate, logger: logger}
}

// Validate returns nil when cfg is well formed, or a validation error
// describing the first problem found.
func (s *ValidationService) Validate(cfg *models.CourseConfig) error {
	if cfg == nil {
		return appErrors.Clone(appErrors.ErrValidation, "course config is required")
	}
	if err := s.validate.Struct(cfg); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course config failed validation")
	}

	checks := []func(*models.CourseConfig) error{
		s.checkCourseRange,
		s.checkSections,
		s.checkHolidays,
		s.checkLectures,
		s.checkLabs,
		s.checkAssignments,
		s.checkCanvas,
	}
	for _, check := range checks {
		if err := check(cfg); err != nil {
			return err
		}
	}

	s.logger.Debug("course config validated",
		zap.String("course", cfg.CourseCode),
		zap.Int("sections", len(cfg.Sections)),
		zap.Int("lectures", len(cfg.Lectures)))

	return nil
}

func (s *ValidationService) checkCourseRange(cfg *models.CourseConfig) error {
	if err := requireDate("startDate", cfg.StartDate); err != nil {
		return err
	}
	if err := requireDate("endDate", cfg.EndDate); err != nil {
		return err
	}
	if cfg.EndDate <= cfg.StartDate {
		return validationf("endDate %s must be after startDate %s", cfg.EndDate, cfg.StartDate)
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return validationf("unknown timezone %q", cfg.Timezone)
		}
	}
	return nil
}

func (s *ValidationService) checkSections(cfg *models.CourseConfig) error {
	seen := map[string]bool{}
	all := make([]models.Section, 0, len(cfg.Sections)+len(cfg.LabSections))
	all = append(all, cfg.Sections...)
	all = append(all, cfg.LabSections...)

	for _, sec := range all {
		if seen[sec.ID] {
			return validationf("duplicate section id %q", sec.ID)
		}
		seen[sec.ID] = true

		if _, err := time.LoadLocation(cfg.TimezoneFor(sec)); err != nil {
			return validationf("section %s: unknown timezone %q", sec.ID, sec.TimeZone)
		}
		if sec.StartDate != "" {
			if err := requireDate(fmt.Sprintf("section %s startDate", sec.ID), sec.StartDate); err != nil {
				return err
			}
		}
		if sec.EndDate != "" {
			if err := requireDate(fmt.Sprintf("section %s endDate", sec.ID), sec.EndDate); err != nil {
				return err
			}
		}
		start, end := cfg.SectionRange(sec)
		if end <= start {
			return validationf("section %s: endDate %s must be after startDate %s", sec.ID, end, start)
		}

		for i, m := range sec.Meetings {
			for _, d := range m.Days {
				if !d.Valid() {
					return validationf("section %s meeting %d: unknown weekday %q", sec.ID, i, d)
				}
			}
			if !clockPattern.MatchString(m.StartTime) {
				return validationf("section %s meeting %d: invalid startTime %q", sec.ID, i, m.StartTime)
			}
			if !clockPattern.MatchString(m.EndTime) {
				return validationf("section %s meeting %d: invalid endTime %q", sec.ID, i, m.EndTime)
			}
			if m.EndTime <= m.StartTime {
				return validationf("section %s meeting %d: endTime %s must be after startTime %s", sec.ID, i, m.EndTime, m.StartTime)
			}
		}
	}
	return nil
}

func (s *ValidationService) checkHolidays(cfg *models.CourseConfig) error {
	for _, h := range cfg.Holidays {
		if err := checkHoliday("holiday", h); err != nil {
			return err
		}
	}
	for _, sec := range append(append([]models.Section{}, cfg.Sections...), cfg.LabSections...) {
		for _, h := range sec.AdditionalHolidays {
			if err := checkHoliday(fmt.Sprintf("section %s holiday", sec.ID), h); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkHoliday(context string, h models.Holiday) error {
	if err := requireDate(fmt.Sprintf("%s %q date", context, h.Name), h.Date); err != nil {
		return err
	}
	if h.EndDate != "" {
		if err := requireDate(fmt.Sprintf("%s %q endDate", context, h.Name), h.EndDate); err != nil {
			return err
		}
		if h.EndDate < h.Date {
			return validationf("%s %q: endDate %s precedes date %s", context, h.Name, h.EndDate, h.Date)
		}
	}
	return nil
}

func (s *ValidationService) checkLectures(cfg *models.CourseConfig) error {
	known := knownSectionIDs(cfg)
	seen := map[string]bool{}
	for _, lec := range cfg.Lectures {
		if seen[lec.LectureID] {
			return validationf("duplicate lecture id %q", lec.LectureID)
		}
		seen[lec.LectureID] = true
		for _, d := range lec.Dates {
			if err := requireDate(fmt.Sprintf("lecture %s date", lec.LectureID), d); err != nil {
				return err
			}
		}
		for _, id := range lec.Sections {
			if !known[id] {
				return validationf("lecture %s references unknown section %q", lec.LectureID, id)
			}
		}
	}
	return nil
}

func (s *ValidationService) checkLabs(cfg *models.CourseConfig) error {
	known := knownSectionIDs(cfg)
	seen := map[string]bool{}
	for _, lab := range cfg.Labs {
		if seen[lab.ID] {
			return validationf("duplicate lab id %q", lab.ID)
		}
		seen[lab.ID] = true
		for _, d := range lab.Dates {
			if err := requireDate(fmt.Sprintf("lab %s date", lab.ID), d); err != nil {
				return err
			}
		}
		for _, id := range lab.Sections {
			if !known[id] {
				return validationf("lab %s references unknown section %q", lab.ID, id)
			}
		}
	}
	return nil
}

func (s *ValidationService) checkAssignments(cfg *models.CourseConfig) error {
	seen := map[string]bool{}
	for _, a := range cfg.Assignments {
		if seen[a.ID] {
			return validationf("duplicate assignment id %q", a.ID)
		}
		seen[a.ID] = true
		if err := requireDate(fmt.Sprintf("assignment %s assignedDate", a.ID), a.AssignedDate); err != nil {
			return err
		}
		if err := requireDate(fmt.Sprintf("assignment %s dueDate", a.ID), a.DueDate); err != nil {
			return err
		}
		if a.DueDate < a.AssignedDate {
			return validationf("assignment %s: dueDate %s precedes assignedDate %s", a.ID, a.DueDate, a.AssignedDate)
		}
		if a.DueTime != "" && !clockPattern.MatchString(a.DueTime) {
			return validationf("assignment %s: invalid dueTime %q", a.ID, a.DueTime)
		}
		if a.TimeZone != "" {
			if _, err := time.LoadLocation(a.TimeZone); err != nil {
				return validationf("assignment %s: unknown timezone %q", a.ID, a.TimeZone)
			}
		}
	}
	return nil
}

func (s *ValidationService) checkCanvas(cfg *models.CourseConfig) error {
	if cfg.Canvas == nil || !cfg.Canvas.EnableSync {
		return nil
	}
	if cfg.Canvas.CanvasURL == "" {
		return validationf("canvas sync enabled but canvasUrl is empty")
	}
	if cfg.Canvas.CourseID == "" {
		return validationf("canvas sync enabled but courseId is empty")
	}
	return nil
}

func knownSectionIDs(cfg *models.CourseConfig) map[string]bool {
	ids := make(map[string]bool, len(cfg.Sections)+len(cfg.LabSections))
	for _, sec := range cfg.Sections {
		ids[sec.ID] = true
	}
	for _, sec := range cfg.LabSections {
		ids[sec.ID] = true
	}
	return ids
}

func requireDate(field, value string) error {
	if !isoDatePattern.MatchString(value) {
		return validationf("%s: expected YYYY-MM-DD, got %q", field, value)
	}
	if _, err := dates.Parse(value); err != nil {
		return validationf("%s: invalid calendar date %q", field, value)
	}
	return nil
}

func validationf(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(format, args...))
}
