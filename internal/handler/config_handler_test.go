package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classasaurus/coursegen/internal/dto"
	"github.com/classasaurus/coursegen/internal/models"
	"github.com/classasaurus/coursegen/internal/service"
	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

func newConfigHandlerFixture(source CourseSource) *ConfigHandler {
	return NewConfigHandler(source,
		service.NewValidationService(nil, nil),
		service.NewScheduleService(nil))
}

func TestConfigHandlerGetConfig(t *testing.T) {
	handler := newConfigHandlerFixture(&courseSourceStub{cfg: testConfig()})

	w := performRequest(t, handler.GetConfig, "/config")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CS101")
}

func TestConfigHandlerReload(t *testing.T) {
	source := &courseSourceStub{cfg: testConfig()}
	handler := newConfigHandlerFixture(source)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/reload", nil)
	require.NoError(t, err)
	c.Request = req
	handler.Reload(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, source.reloads)

	envelope := decodeEnvelope(t, w)
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	resp := dto.ReloadResponse{}
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "CS101", resp.Course)
	assert.Equal(t, 1, resp.Sections)
	assert.Equal(t, 3, resp.Entries)
}

func TestConfigHandlerReloadRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.EndDate = "2025-01-01"
	handler := newConfigHandlerFixture(&courseSourceStub{cfg: cfg})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/reload", nil)
	require.NoError(t, err)
	c.Request = req
	handler.Reload(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

type syncRunnerStub struct {
	result *service.SyncResult
	err    error
	dryRun bool
	called bool
}

func (s *syncRunnerStub) Sync(ctx context.Context, cfg *models.CourseConfig, dryRun bool) (*service.SyncResult, error) {
	s.called = true
	s.dryRun = dryRun
	return s.result, s.err
}

func TestCanvasHandlerSync(t *testing.T) {
	runner := &syncRunnerStub{result: &service.SyncResult{RunID: "run-1", Created: 2}}
	handler := NewCanvasHandler(&courseSourceStub{cfg: testConfig()}, runner)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/canvas/sync?dryRun=true", nil)
	require.NoError(t, err)
	c.Request = req
	handler.Sync(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, runner.called)
	assert.True(t, runner.dryRun)
	assert.Contains(t, w.Body.String(), "run-1")
}

func TestCanvasHandlerSyncDisabled(t *testing.T) {
	handler := NewCanvasHandler(&courseSourceStub{cfg: testConfig()}, nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/canvas/sync", nil)
	require.NoError(t, err)
	c.Request = req
	handler.Sync(c)

	require.Equal(t, appErrors.ErrDisabled.Status, w.Code)
}
