package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHealthChecker struct{ err error }

func (f fakeHealthChecker) Ping(ctx context.Context) error { return f.err }

func TestHealthAlwaysReportsHealthy(t *testing.T) {
	h := NewHealthHandler(nil, nil, "v1.2.3")
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "v1.2.3", body.Version)
}

func TestReadyAllServicesHealthy(t *testing.T) {
	h := NewHealthHandler(fakeHealthChecker{}, fakeHealthChecker{}, "v1")
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, "healthy", body.Services["database"])
	assert.Equal(t, "healthy", body.Services["redis"])
}

func TestReadyReportsUnhealthyDependency(t *testing.T) {
	h := NewHealthHandler(fakeHealthChecker{err: errors.New("connection refused")}, fakeHealthChecker{}, "v1")
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "not ready", body.Status)
	assert.Contains(t, body.Services["database"], "unhealthy")
}

func TestLiveReportsAlive(t *testing.T) {
	h := NewHealthHandler(nil, nil, "v1")
	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
}
