package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/classasaurus/coursegen/internal/models"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

// CourseRepository loads the course definition from a YAML or JSON file
// and caches the parsed result. Reload re-reads the file, which is how
// the serving layer picks up edits between content-load cycles.
type CourseRepository struct {
	path     string
	logger   *zap.Logger
	validate func(*models.CourseConfig) error

	mu  sync.RWMutex
	cfg *models.CourseConfig
}

// NewCourseRepository constructs a repository for the given file path.
func NewCourseRepository(path string, logger *zap.Logger) *CourseRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseRepository{path: path, logger: logger}
}

// SetValidator installs a check run against every freshly parsed config.
// Reload refuses to commit a config the check rejects, so a bad edit to
// the backing file never displaces a working cache. Set it once at
// wiring time, before the repository is shared.
func (r *CourseRepository) SetValidator(fn func(*models.CourseConfig) error) {
	r.validate = fn
}

// Path returns the backing file path.
func (r *CourseRepository) Path() string {
	return r.path
}

// Config returns the cached course configuration, loading it on first
// use.
func (r *CourseRepository) Config() (*models.CourseConfig, error) {
	r.mu.RLock()
	cfg := r.cfg
	r.mu.RUnlock()
	if cfg != nil {
		return cfg, nil
	}
	return r.Reload()
}

// Reload re-reads and re-parses the backing file, replacing the cache
// only when the new config parses and passes the installed validator.
// The previous cache is kept on any failure.
func (r *CourseRepository) Reload() (*models.CourseConfig, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status,
				fmt.Sprintf("course config not found: %s", r.path))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read course config")
	}

	cfg, err := Parse(data, filepath.Ext(r.path))
	if err != nil {
		return nil, err
	}
	if r.validate != nil {
		if err := r.validate(cfg); err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.cfg = cfg
	r.mu.Unlock()

	r.logger.Info("course config loaded",
		zap.String("path", r.path),
		zap.String("course", cfg.CourseCode),
		zap.Int("sections", len(cfg.Sections)))

	return cfg, nil
}

// Parse decodes a course configuration payload. The extension selects the
// decoder; anything that is not .json is treated as YAML (a superset of
// JSON in the version used, but the explicit branch keeps error messages
// honest).
func Parse(data []byte, ext string) (*models.CourseConfig, error) {
	cfg := &models.CourseConfig{}

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid JSON course config")
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid YAML course config")
		}
	}

	return cfg, nil
}
