package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classasaurus/coursegen/internal/service"
)

func newExportHandlerFixture(source CourseSource) *ExportHandler {
	return NewExportHandler(source,
		service.NewScheduleService(nil),
		service.NewExportService("example.edu", nil),
		service.NewMetricsService())
}

func TestExportHandlerICS(t *testing.T) {
	handler := newExportHandlerFixture(&courseSourceStub{cfg: testConfig()})

	w := performRequest(t, handler.Export("ics"), "/schedule.ics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule.ics")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
}

func TestExportHandlerMarkdown(t *testing.T) {
	handler := newExportHandlerFixture(&courseSourceStub{cfg: testConfig()})

	w := performRequest(t, handler.Export("md"), "/schedule.md")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "| # | Date | Day | Topic | Notes |")
}

func TestExportHandlerCSV(t *testing.T) {
	handler := newExportHandlerFixture(&courseSourceStub{cfg: testConfig()})

	w := performRequest(t, handler.Export("csv"), "/schedule.csv")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Meeting,Date,Day")
}

func TestExportHandlerPDF(t *testing.T) {
	handler := newExportHandlerFixture(&courseSourceStub{cfg: testConfig()})

	w := performRequest(t, handler.Export("pdf"), "/schedule.pdf")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestExportHandlerUnknownSection(t *testing.T) {
	handler := newExportHandlerFixture(&courseSourceStub{cfg: testConfig()})

	w := performRequest(t, handler.Export("ics"), "/schedule.ics?section=999")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandlerUnknownFormat(t *testing.T) {
	handler := newExportHandlerFixture(&courseSourceStub{cfg: testConfig()})

	w := performRequest(t, handler.Export("xml"), "/schedule.xml")
	require.Equal(t, http.StatusNotFound, w.Code)
}
