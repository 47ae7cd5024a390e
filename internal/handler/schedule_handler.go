package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classasaurus/coursegen/internal/dto"
	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/internal/service"
	"github.com/classasaurus/coursegen/pkg/dates"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
	"github.com/classasaurus/coursegen/pkg/response"
)

// CourseSource supplies the current course configuration; implemented by
// the course repository.
type CourseSource interface {
	Config() (*models.CourseConfig, error)
	Reload() (*models.CourseConfig, error)
	Path() string
}

// ScheduleHandler exposes the schedule read endpoints.
type ScheduleHandler struct {
	source    CourseSource
	generator *service.ScheduleService
	query     *service.ScheduleQueryService
	metrics   *service.MetricsService
}

// NewScheduleHandler constructs the schedule handler.
func NewScheduleHandler(source CourseSource, generator *service.ScheduleService, query *service.ScheduleQueryService, metrics *service.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{source: source, generator: generator, query: query, metrics: metrics}
}

// GetSchedule returns the full generated schedule, or a single section's
// entries when ?section= is given.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	var q dto.ScheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	schedule, err := h.generate()
	if err != nil {
		response.Error(c, err)
		return
	}
	if q.Section == "" {
		response.OK(c, schedule)
		return
	}
	entries := schedule.EntriesForSection(q.Section)
	if entries == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown section "+q.Section))
		return
	}
	response.OK(c, entries)
}

// GetWeek returns the Sunday-to-Saturday week containing ?date= (today
// when omitted).
func (h *ScheduleHandler) GetWeek(c *gin.Context) {
	var q dto.WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	schedule, err := h.generate()
	if err != nil {
		response.Error(c, err)
		return
	}
	date := q.Date
	if date == "" {
		date = h.today(schedule.Config)
	}
	entries, err := h.query.CurrentWeekSchedule(schedule, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	week, err := h.query.AcademicWeek(schedule.Config, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, map[string]interface{}{
		"date": date,
		"week": week,
	})
}

// GetUpcoming returns the next meetings and assignment deadlines from
// ?date= (today when omitted).
func (h *ScheduleHandler) GetUpcoming(c *gin.Context) {
	var q dto.UpcomingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	schedule, err := h.generate()
	if err != nil {
		response.Error(c, err)
		return
	}
	date := q.From
	if date == "" {
		date = q.Date
	}
	if date == "" {
		date = h.today(schedule.Config)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}
	response.OK(c, gin.H{
		"meetings":    h.query.UpcomingMeetings(schedule, date, limit),
		"assignments": h.query.UpcomingAssignments(schedule.Config, date, limit),
	})
}

// GetStats returns headline course statistics plus a process metrics
// snapshot.
func (h *ScheduleHandler) GetStats(c *gin.Context) {
	schedule, err := h.generate()
	if err != nil {
		response.Error(c, err)
		return
	}
	payload := gin.H{"course": h.query.Stats(schedule)}
	if h.metrics != nil {
		payload["system"] = h.metrics.Snapshot()
	}
	response.OK(c, payload)
}

func (h *ScheduleHandler) generate() (*models.CourseSchedule, error) {
	cfg, err := h.source.Config()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	schedule, err := h.generator.Generate(cfg)
	if err != nil {
		return nil, err
	}
	if h.metrics != nil {
		h.metrics.ObserveGeneration(len(schedule.AllEntries), time.Since(start))
	}
	return schedule, nil
}

// today resolves the current date in the course's timezone so late-night
// requests near midnight land on the right civil day.
func (h *ScheduleHandler) today(cfg *models.CourseConfig) string {
	now := time.Now()
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			now = now.In(loc)
		}
	}
	return now.Format(dates.ISODate)
}
