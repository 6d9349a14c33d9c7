package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), nil)
		assert.Equal(t, health.StatusHealthy, resp.Status)
	})

	t.Run("one failing check", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), health.Checks{
			"db":    func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Equal(t, health.StatusHealthy, resp.Checks["db"].Status)
		assert.Equal(t, "connection refused", resp.Checks["redis"].Error)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()
		resp := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(20*time.Millisecond))
		assert.Equal(t, health.StatusUnhealthy, resp.Status)
		assert.Contains(t, resp.Checks["slow"].Error, health.ErrCheckTimeout.Error())
	})
}

func TestMount(t *testing.T) {
	t.Parallel()

	healthy := true
	r := chi.NewRouter()
	health.Mount(r, health.Checks{
		"db": func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("down")
		},
	})

	tests := []struct {
		name       string
		path       string
		accept     string
		wantStatus int
		wantBody   string
	}{
		{name: "liveness", path: health.LivePath, wantStatus: http.StatusOK, wantBody: "OK"},
		{name: "readiness", path: health.ReadyPath, wantStatus: http.StatusOK, wantBody: "OK"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, tt.wantStatus, rec.Code, tt.name)
		assert.Equal(t, tt.wantBody, rec.Body.String(), tt.name)
	}

	healthy = false
	req := httptest.NewRequest(http.MethodGet, health.ReadyPath+"?format=json", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp health.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, health.StatusUnhealthy, resp.Status)
	assert.Equal(t, "down", resp.Checks["db"].Error)

	req = httptest.NewRequest(http.MethodGet, health.ReadyPath, nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "Service Unavailable", rec.Body.String())
}
