package canvas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, "12345", "secret-token", 5*time.Second, 100, nil)
	return client, server
}

func TestListAssignments(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/courses/12345/assignments", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]Assignment{{ID: 1, Name: "HW 1"}}) //nolint:errcheck
	})

	assignments, err := client.ListAssignments(context.Background())
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "HW 1", assignments[0].Name)
}

func TestCreateAssignmentWrapsPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]Assignment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body, "assignment")
		assert.Equal(t, "HW 2", body["assignment"].Name)

		created := body["assignment"]
		created.ID = 42
		json.NewEncoder(w).Encode(created) //nolint:errcheck
	})

	created, err := client.CreateAssignment(context.Background(), Assignment{Name: "HW 2"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
}

func TestUpdateAssignmentTargetsID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/courses/12345/assignments/7", r.URL.Path)
		json.NewEncoder(w).Encode(Assignment{ID: 7}) //nolint:errcheck
	})

	updated, err := client.UpdateAssignment(context.Background(), 7, Assignment{Name: "HW 1"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.ID)
}

func TestClientSurfacesErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"unauthorized"}]}`, http.StatusUnauthorized)
	})

	_, err := client.ListAssignments(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClientHonorsContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.ListAssignments(ctx)
	assert.Error(t, err)
}
