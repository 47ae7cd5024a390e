package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classasaurus/coursegen/internal/models"
)

func TestConfigLoadsYAML(t *testing.T) {
	repo := NewCourseRepository(filepath.Join("testdata", "course.yaml"), nil)

	cfg, err := repo.Config()
	require.NoError(t, err)

	assert.Equal(t, "CS101", cfg.CourseCode)
	assert.Equal(t, "2026-01-12", cfg.StartDate)
	require.Len(t, cfg.Sections, 1)
	require.Len(t, cfg.Sections[0].Meetings, 1)
	assert.Equal(t, models.MeetingLecture, cfg.Sections[0].Meetings[0].Type)
	assert.Len(t, cfg.Sections[0].Meetings[0].Days, 3)
	require.Len(t, cfg.LabSections, 1)
	assert.Equal(t, "L01", cfg.LabSections[0].ID)
	require.Len(t, cfg.Holidays, 1)
	assert.Equal(t, "2026-03-13", cfg.Holidays[0].EndDate)
	require.NotNil(t, cfg.Canvas)
	assert.False(t, cfg.Canvas.EnableSync)
}

func TestConfigCachesUntilReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "course.yaml")
	original, err := os.ReadFile(filepath.Join("testdata", "course.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	repo := NewCourseRepository(path, nil)
	cfg, err := repo.Config()
	require.NoError(t, err)
	assert.Equal(t, "CS101", cfg.CourseCode)

	// Edit the file behind the cache.
	edited := []byte("courseCode: CS999\n" + string(original[len("courseCode: CS101\n"):]))
	require.NoError(t, os.WriteFile(path, edited, 0o644))

	cached, err := repo.Config()
	require.NoError(t, err)
	assert.Equal(t, "CS101", cached.CourseCode)

	reloaded, err := repo.Reload()
	require.NoError(t, err)
	assert.Equal(t, "CS999", reloaded.CourseCode)
}

func TestReloadKeepsPreviousConfigOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "course.yaml")
	original, err := os.ReadFile(filepath.Join("testdata", "course.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	repo := NewCourseRepository(path, nil)
	_, err = repo.Config()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("sections: [unclosed"), 0o644))
	_, err = repo.Reload()
	require.Error(t, err)

	cfg, err := repo.Config()
	require.NoError(t, err)
	assert.Equal(t, "CS101", cfg.CourseCode)
}

func TestReloadKeepsPreviousConfigWhenValidationFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "course.yaml")
	original, err := os.ReadFile(filepath.Join("testdata", "course.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, original, 0o644))

	repo := NewCourseRepository(path, nil)
	repo.SetValidator(func(cfg *models.CourseConfig) error {
		if cfg.EndDate <= cfg.StartDate {
			return errors.New("endDate must be after startDate")
		}
		return nil
	})
	_, err = repo.Config()
	require.NoError(t, err)

	// Parseable, but the course range is inverted.
	edited := bytes.Replace(original, []byte(`endDate: "2026-05-01"`), []byte(`endDate: "2025-01-01"`), 1)
	require.NotEqual(t, original, edited)
	require.NoError(t, os.WriteFile(path, edited, 0o644))

	_, err = repo.Reload()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be after")

	cfg, err := repo.Config()
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", cfg.EndDate)
}

func TestConfigMissingFile(t *testing.T) {
	repo := NewCourseRepository(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	_, err := repo.Config()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseJSON(t *testing.T) {
	cfg := &models.CourseConfig{
		CourseCode:  "CS101",
		CourseTitle: "Intro",
		Semester:    "Spring 2026",
		StartDate:   "2026-01-12",
		EndDate:     "2026-05-01",
		Sections: []models.Section{
			{ID: "001", Name: "Section 001", TimeZone: "UTC"},
		},
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	parsed, err := Parse(data, ".json")
	require.NoError(t, err)
	assert.Equal(t, "CS101", parsed.CourseCode)
	require.Len(t, parsed.Sections, 1)
	assert.Equal(t, "001", parsed.Sections[0].ID)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte("{nope"), ".json")
	assert.Error(t, err)
}
