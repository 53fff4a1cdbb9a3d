package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courseapi/internal/config"
	"courseapi/internal/database"
	"courseapi/internal/middleware"
	"courseapi/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *repository.MemoryRepository) {
	t.Helper()
	return newTestServerWithConfig(t, config.DefaultConfig())
}

func newTestServerWithConfig(t *testing.T, cfg *config.ServerConfig) (*httptest.Server, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	manager := database.NewManager(func(context.Context) (repository.Repository, error) {
		return repo, nil
	}, 0)

	ts := httptest.NewServer(Handler(cfg, manager))
	t.Cleanup(ts.Close)
	return ts, repo
}

func do(t *testing.T, method string, url string, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res, b
}

func TestCourseLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	res, body := do(t, http.MethodGet, ts.URL+"/api/courses", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[]`, string(body))

	res, body = do(t, http.MethodPost, ts.URL+"/api/courses", `{"title": "Algebra", "code": "MATH 101"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &created))
	id, _ := created["_id"].(string)
	require.Len(t, id, 24)
	assert.Equal(t, "Algebra", created["title"])
	assert.Equal(t, "MATH 101", created["code"])
	assert.NotEmpty(t, created["createdAt"])

	res, body = do(t, http.MethodGet, ts.URL+"/api/courses/"+id, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var fetched map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, created, fetched)

	res, body = do(t, http.MethodGet, ts.URL+"/api/courses", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, []map[string]interface{}{created}, list)

	res, body = do(t, http.MethodDelete, ts.URL+"/api/courses/"+id, "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Empty(t, body)

	res, body = do(t, http.MethodGet, ts.URL+"/api/courses/"+id, "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.JSONEq(t, `{"error": "Course not found"}`, string(body))
}

func TestQueryParamID(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := do(t, http.MethodPost, ts.URL+"/api/courses", `{}`)
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Untitled Course", created["title"])
	id := created["_id"].(string)

	res, _ := do(t, http.MethodGet, ts.URL+"/api/courses?id="+id, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = do(t, http.MethodDelete, ts.URL+"/api/courses?id="+id, "")
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
}

func TestErrorResponses(t *testing.T) {
	ts, repo := newTestServer(t)

	tests := []struct {
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{http.MethodGet, "/api/courses/not-a-valid-id", "", http.StatusBadRequest, "Invalid course ID format"},
		{http.MethodDelete, "/api/courses", "", http.StatusBadRequest, "ID required for deletion"},
		{http.MethodDelete, "/api/courses/not-a-valid-id", "", http.StatusBadRequest, "Invalid course ID format"},
		{http.MethodPost, "/api/courses", `{"title":`, http.StatusBadRequest, "Invalid request body"},
		{http.MethodPut, "/api/courses/507f1f77bcf86cd799439011", `{}`, http.StatusMethodNotAllowed, "Method PUT not allowed"},
		{http.MethodPatch, "/api/courses", `{}`, http.StatusMethodNotAllowed, "Method PATCH not allowed"},
		{http.MethodDelete, "/api/courses/507f1f77bcf86cd799439011", "", http.StatusNotFound, "Course not found for deletion"},
	}

	for _, tt := range tests {
		res, body := do(t, tt.method, ts.URL+tt.path, tt.body)
		assert.Equal(t, tt.status, res.StatusCode, "%s %s", tt.method, tt.path)

		var e map[string]string
		require.NoError(t, json.Unmarshal(body, &e), "%s %s: %s", tt.method, tt.path, body)
		assert.Equal(t, map[string]string{"error": tt.message}, e)
	}

	// Only the final delete of a well-formed ID reaches the store.
	assert.Equal(t, int64(1), repo.Calls())
}

func TestBodyTooLarge(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxBodyBytes = 16
	ts, repo := newTestServerWithConfig(t, cfg)

	big := `{"title": "` + strings.Repeat("a", 64) + `"}`
	res, _ := do(t, http.MethodPost, ts.URL+"/api/courses", big)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Zero(t, repo.Calls())
}

func TestRequestID(t *testing.T) {
	ts, _ := newTestServer(t)

	res, _ := do(t, http.MethodGet, ts.URL+"/", "")
	assert.Len(t, res.Header.Get(middleware.RequestIDHeader), 36)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "abc-123", res.Header.Get(middleware.RequestIDHeader))
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	res, body := do(t, http.MethodGet, ts.URL+"/", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Course Management Server is running", string(body))

	res, body = do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status": "healthy", "store": "memory", "connected": true}`, string(body))
}

func TestUnavailableStore(t *testing.T) {
	manager := database.NewManager(func(context.Context) (repository.Repository, error) {
		return nil, errors.New("no reachable servers")
	}, 0)
	ts := httptest.NewServer(Handler(config.DefaultConfig(), manager))
	defer ts.Close()

	res, body := do(t, http.MethodGet, ts.URL+"/api/courses", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.JSONEq(t, `{"error": "Database not initialized."}`, string(body))

	res, body = do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	assert.JSONEq(t, `{"status": "unhealthy", "store": "memory", "connected": false, "error": "Database not initialized."}`, string(body))
}

func TestCORSPreflight(t *testing.T) {
	ts, repo := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/courses", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()

	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Zero(t, repo.Calls())
}
