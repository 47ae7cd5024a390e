package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/classasaurus/coursegen/internal/dto"
	"github.com/classasaurus/coursegen/internal/service"
	"github.com/classasaurus/coursegen/pkg/response"
)

// ConfigHandler exposes the course configuration and its reload cycle.
type ConfigHandler struct {
	source    CourseSource
	validator *service.ValidationService
	generator *service.ScheduleService
}

// NewConfigHandler constructs the config handler.
func NewConfigHandler(source CourseSource, validator *service.ValidationService, generator *service.ScheduleService) *ConfigHandler {
	return &ConfigHandler{source: source, validator: validator, generator: generator}
}

// GetConfig returns the loaded course configuration.
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.source.Config()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, cfg)
}

// Reload re-reads the configuration file, validates it, and reports the
// resulting schedule size. A failed reload keeps the previous config in
// service.
func (h *ConfigHandler) Reload(c *gin.Context) {
	cfg, err := h.source.Reload()
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.validator.Validate(cfg); err != nil {
		response.Error(c, err)
		return
	}
	schedule, err := h.generator.Generate(cfg)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ReloadResponse{
		Path:     h.source.Path(),
		Course:   cfg.CourseCode,
		Sections: len(cfg.Sections) + len(cfg.LabSections),
		Entries:  len(schedule.AllEntries),
	})
}
