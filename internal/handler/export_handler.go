package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/classasaurus/coursegen/internal/dto"
	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/internal/service"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
	"github.com/classasaurus/coursegen/pkg/response"
)

// contentTypes maps export formats to their media types.
var contentTypes = map[string]string{
	"ics":  "text/calendar; charset=utf-8",
	"md":   "text/markdown; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
	"pdf":  "application/pdf",
	"json": "application/json; charset=utf-8",
}

// ExportHandler serves the schedule in download formats.
type ExportHandler struct {
	source    CourseSource
	generator *service.ScheduleService
	exporter  *service.ExportService
	metrics   *service.MetricsService
}

// NewExportHandler constructs the export handler.
func NewExportHandler(source CourseSource, generator *service.ScheduleService, exporter *service.ExportService, metrics *service.MetricsService) *ExportHandler {
	return &ExportHandler{source: source, generator: generator, exporter: exporter, metrics: metrics}
}

// Export returns a handler rendering the schedule in the given format.
// ?section= restricts the export to one section.
func (h *ExportHandler) Export(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.ExportQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
			return
		}
		schedule, err := h.generate()
		if err != nil {
			response.Error(c, err)
			return
		}

		var body []byte
		switch format {
		case "ics":
			body, err = h.exporter.RenderICS(schedule, q.Section)
		case "md":
			body, err = h.exporter.RenderMarkdown(schedule, q.Section)
		case "csv":
			body, err = h.exporter.RenderCSV(schedule, q.Section)
		case "pdf":
			body, err = h.exporter.RenderPDF(schedule, q.Section)
		case "json":
			body, err = h.exporter.RenderJSON(schedule)
		default:
			err = appErrors.Clone(appErrors.ErrNotFound, "unknown export format "+format)
		}
		if err != nil {
			response.Error(c, err)
			return
		}

		if h.metrics != nil {
			h.metrics.ObserveExport(format)
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "schedule."+format))
		c.Data(http.StatusOK, contentTypes[format], body)
	}
}

func (h *ExportHandler) generate() (*models.CourseSchedule, error) {
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
