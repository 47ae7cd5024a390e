package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/classasaurus/coursegen/internal/dto"
	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/internal/service"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
	"github.com/classasaurus/coursegen/pkg/response"
)

// SyncRunner is the slice of the Canvas sync service the handler uses.
type SyncRunner interface {
	Sync(ctx context.Context, cfg *models.CourseConfig, dryRun bool) (*service.SyncResult, error)
}

// CanvasHandler exposes the Canvas sync endpoint. runner is nil when sync
// is disabled by deployment config.
type CanvasHandler struct {
	source CourseSource
	runner SyncRunner
}

// NewCanvasHandler constructs the Canvas handler.
func NewCanvasHandler(source CourseSource, runner SyncRunner) *CanvasHandler {
	return &CanvasHandler{source: source, runner: runner}
}

// Sync pushes the course's assignments to Canvas. ?dryRun=true reports
// the plan without writing.
func (h *CanvasHandler) Sync(c *gin.Context) {
	if h.runner == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrDisabled, "canvas sync is disabled"))
		return
	}
	var req dto.SyncRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	cfg, err := h.source.Config()
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.runner.Sync(c.Request.Context(), cfg, req.DryRun)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
