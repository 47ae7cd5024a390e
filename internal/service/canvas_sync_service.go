package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/classasaurus/coursegen/internal/canvas"
	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/pkg/dates"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

// CanvasAPI is the slice of the Canvas client the sync service consumes.
type CanvasAPI interface {
	ListAssignments(ctx context.Context) ([]canvas.Assignment, error)
	CreateAssignment(ctx context.Context, a canvas.Assignment) (*canvas.Assignment, error)
	UpdateAssignment(ctx context.Context, id int64, a canvas.Assignment) (*canvas.Assignment, error)
	ListModules(ctx context.Context) ([]canvas.Module, error)
	CreateModule(ctx context.Context, m canvas.Module) (*canvas.Module, error)
}

// SyncResult reports one sync run.
type SyncResult struct {
	RunID          string    `json:"runId"`
	DryRun         bool      `json:"dryRun"`
	StartedAt      time.Time `json:"startedAt"`
	Created        int       `json:"created"`
	Updated        int       `json:"updated"`
	Skipped        int       `json:"skipped"`
	ModulesCreated int       `json:"modulesCreated"`
	Errors         []string  `json:"errors,omitempty"`
}

// CanvasSyncService pushes configured assignments to a Canvas course.
// Matching is by assignment name: known names are updated, unknown names
// created. Dry runs compute the same plan without issuing writes.
type CanvasSyncService struct {
	api     CanvasAPI
	siteURL string
	logger  *zap.Logger
}

// NewCanvasSyncService creates a sync service. siteURL is linked from
// every pushed assignment description so Canvas points back at the
// authoritative course site.
func NewCanvasSyncService(api CanvasAPI, siteURL string, logger *zap.Logger) *CanvasSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasSyncService{api: api, siteURL: siteURL, logger: logger}
}

// Sync pushes cfg's assignments to Canvas. It returns a result even on
// partial failure; per-assignment errors are collected rather than
// aborting the run.
func (s *CanvasSyncService) Sync(ctx context.Context, cfg *models.CourseConfig, dryRun bool) (*SyncResult, error) {
	if cfg == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course config is required")
	}
	if cfg.Canvas == nil || !cfg.Canvas.EnableSync {
		return nil, appErrors.Clone(appErrors.ErrDisabled, "canvas sync is not enabled for this course")
	}
	if s.api == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "canvas client is not configured")
	}

	result := &SyncResult{
		RunID:     uuid.NewString(),
		DryRun:    dryRun,
		StartedAt: time.Now(),
	}

	existing, err := s.api.ListAssignments(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]canvas.Assignment, len(existing))
	for _, a := range existing {
		byName[a.Name] = a
	}

	for _, assignment := range cfg.Assignments {
		payload, err := s.buildPayload(cfg, assignment)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", assignment.ID, err))
			continue
		}

		current, exists := byName[payload.Name]
		switch {
		case exists && assignmentMatches(current, payload):
			result.Skipped++
		case exists:
			if !dryRun {
				if _, err := s.api.UpdateAssignment(ctx, current.ID, payload); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", assignment.ID, err))
					continue
				}
			}
			result.Updated++
		default:
			if !dryRun {
				if _, err := s.api.CreateAssignment(ctx, payload); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", assignment.ID, err))
					continue
				}
			}
			result.Created++
		}
	}

	if err := s.ensureWeekModules(ctx, cfg, result, dryRun); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("modules: %v", err))
	}

	s.logger.Info("canvas sync finished",
		zap.String("runId", result.RunID),
		zap.Bool("dryRun", dryRun),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("modules", result.ModulesCreated),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// ensureWeekModules creates one "Week N" module per course week so
// pushed assignments have a landing structure. Existing modules are
// never renamed or reordered.
func (s *CanvasSyncService) ensureWeekModules(ctx context.Context, cfg *models.CourseConfig, result *SyncResult, dryRun bool) error {
	weeks, err := courseWeekCount(cfg)
	if err != nil || weeks == 0 {
		return err
	}

	existing, err := s.api.ListModules(ctx)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.Name] = true
	}

	for week := 1; week <= weeks; week++ {
		name := fmt.Sprintf("Week %d", week)
		if known[name] {
			continue
		}
		if !dryRun {
			if _, err := s.api.CreateModule(ctx, canvas.Module{Name: name, Position: week}); err != nil {
				return err
			}
		}
		result.ModulesCreated++
	}
	return nil
}

func courseWeekCount(cfg *models.CourseConfig) (int, error) {
	start, err := dates.Parse(cfg.StartDate)
	if err != nil {
		return 0, err
	}
	end, err := dates.Parse(cfg.EndDate)
	if err != nil {
		return 0, err
	}
	if end.Before(start) {
		return 0, nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	return (days + 6) / 7, nil
}

// buildPayload converts a configured assignment into its Canvas form. The
// due instant is composed in the assignment's declared timezone, falling
// back to the course timezone, then UTC.
func (s *CanvasSyncService) buildPayload(cfg *models.CourseConfig, a models.Assignment) (canvas.Assignment, error) {
	zone := a.TimeZone
	if zone == "" {
		zone = cfg.Timezone
	}
	loc := time.UTC
	if zone != "" {
		parsed, err := time.LoadLocation(zone)
		if err != nil {
			return canvas.Assignment{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown timezone %q", zone))
		}
		loc = parsed
	}

	due, err := time.ParseInLocation(dates.ISODate+" 15:04", a.DueDate+" "+a.EffectiveDueTime(), loc)
	if err != nil {
		return canvas.Assignment{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("invalid due date %q %q", a.DueDate, a.EffectiveDueTime()))
	}

	description := fmt.Sprintf("<p>%s</p>", a.Title)
	link := a.URL
	if link == "" && s.siteURL != "" {
		link = s.siteURL
	}
	if link != "" {
		description = fmt.Sprintf("%s<p>See the <a href=%q>course site</a> for the full write-up.</p>", description, link)
	}

	return canvas.Assignment{
		Name:           a.Title,
		Description:    description,
		DueAt:          due.UTC().Format(time.RFC3339),
		PointsPossible: a.Points,
		Published:      true,
		SubmissionType: []string{"online_url", "online_upload"},
	}, nil
}

// assignmentMatches reports whether the Canvas copy already carries the
// fields we would push.
func assignmentMatches(current, desired canvas.Assignment) bool {
	return current.DueAt == desired.DueAt &&
		current.PointsPossible == desired.PointsPossible &&
		current.Description == desired.Description
}
