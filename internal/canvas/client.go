// Package canvas is a minimal client for the Canvas LMS REST API,
// covering the assignment and module endpoints the sync service pushes
// to. Requests are rate limited client-side because Canvas throttles
// aggressively on shared instances.
package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	appErrors "github.com/classasaurus/coursegen/pkg/errors"
)

// Assignment is the Canvas assignment resource, limited to the fields
// the sync service reads and writes.
type Assignment struct {
	ID             int64    `json:"id,omitempty"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	DueAt          string   `json:"due_at,omitempty"`
	PointsPossible float64  `json:"points_possible,omitempty"`
	Published      bool     `json:"published"`
	SubmissionType []string `json:"submission_types,omitempty"`
}

// Module is the Canvas module resource.
type Module struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Position int    `json:"position,omitempty"`
}

// Client talks to one Canvas course.
type Client struct {
	baseURL  string
	courseID string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
	logger   *zap.Logger
}

// NewClient constructs a client for the given Canvas instance and course.
// requestsPerSec bounds the outgoing request rate.
func NewClient(baseURL, courseID, token string, timeout time.Duration, requestsPerSec float64, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  baseURL,
		courseID: courseID,
		token:    token,
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		logger:   logger,
	}
}

// ListAssignments fetches the course's assignments.
func (c *Client) ListAssignments(ctx context.Context) ([]Assignment, error) {
	var assignments []Assignment
	path := fmt.Sprintf("/api/v1/courses/%s/assignments?per_page=100", url.PathEscape(c.courseID))
	if err := c.do(ctx, http.MethodGet, path, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CreateAssignment creates a new assignment and returns the stored copy.
func (c *Client) CreateAssignment(ctx context.Context, a Assignment) (*Assignment, error) {
	created := &Assignment{}
	path := fmt.Sprintf("/api/v1/courses/%s/assignments", url.PathEscape(c.courseID))
	body := map[string]Assignment{"assignment": a}
	if err := c.do(ctx, http.MethodPost, path, body, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateAssignment updates an existing assignment by id.
func (c *Client) UpdateAssignment(ctx context.Context, id int64, a Assignment) (*Assignment, error) {
	updated := &Assignment{}
	path := fmt.Sprintf("/api/v1/courses/%s/assignments/%d", url.PathEscape(c.courseID), id)
	body := map[string]Assignment{"assignment": a}
	if err := c.do(ctx, http.MethodPut, path, body, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// ListModules fetches the course's modules.
func (c *Client) ListModules(ctx context.Context) ([]Module, error) {
	var modules []Module
	path := fmt.Sprintf("/api/v1/courses/%s/modules?per_page=100", url.PathEscape(c.courseID))
	if err := c.do(ctx, http.MethodGet, path, nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// CreateModule creates a new module.
func (c *Client) CreateModule(ctx context.Context, m Module) (*Module, error) {
	created := &Module{}
	path := fmt.Sprintf("/api/v1/courses/%s/modules", url.PathEscape(c.courseID))
	body := map[string]Module{"module": m}
	if err := c.do(ctx, http.MethodPost, path, body, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "rate limiter interrupted")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "canvas request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("canvas returned an error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return appErrors.Clone(appErrors.ErrUpstream,
			fmt.Sprintf("canvas %s %s returned %d: %s", method, path, resp.StatusCode, string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to decode canvas response")
	}
	return nil
}
