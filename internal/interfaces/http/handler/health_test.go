package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

var (
	healthy   = checkerFunc(func(context.Context) error { return nil })
	unhealthy = checkerFunc(func(context.Context) error { return errors.New("connection refused") })
)

func newHealthRouter(h *HealthHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/live", h.Live)
	return r
}

func readyChecks(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	checks, ok := body["checks"].(map[string]any)
	require.True(t, ok)
	return checks
}

func TestHealthHandler_HealthAndLive(t *testing.T) {
	r := newHealthRouter(NewHealthHandler("1.2.0"))

	w := perform(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.2.0", decode(t, w)["version"])

	w = perform(r, http.MethodGet, "/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_ReadyAllHealthy(t *testing.T) {
	r := newHealthRouter(NewHealthHandler("",
		Dependency{Name: "postgres", Checker: healthy},
		Dependency{Name: "redis", Checker: healthy},
		Dependency{Name: "r2", Checker: healthy, Optional: true},
	))

	w := perform(r, http.MethodGet, "/ready", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Len(t, readyChecks(t, body), 3)
}

func TestHealthHandler_ReadyOptionalDegraded(t *testing.T) {
	r := newHealthRouter(NewHealthHandler("",
		Dependency{Name: "postgres", Checker: healthy},
		Dependency{Name: "r2", Checker: unhealthy, Optional: true},
		Dependency{Name: "stability", Optional: true},
	))

	w := perform(r, http.MethodGet, "/ready", nil)

	require.Equal(t, http.StatusOK, w.Code)
	checks := readyChecks(t, decode(t, w))
	assert.Equal(t, "degraded", checks["r2"].(map[string]any)["status"])
	assert.Equal(t, "connection refused", checks["r2"].(map[string]any)["error"])
	assert.Equal(t, "disabled", checks["stability"].(map[string]any)["status"])
}

func TestHealthHandler_ReadyRequiredFailure(t *testing.T) {
	r := newHealthRouter(NewHealthHandler("",
		Dependency{Name: "postgres", Checker: unhealthy},
		Dependency{Name: "redis"},
	))

	w := perform(r, http.MethodGet, "/ready", nil)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "not_ready", body["status"])
	checks := readyChecks(t, body)
	assert.Equal(t, "error", checks["postgres"].(map[string]any)["status"])
	assert.Equal(t, "missing", checks["redis"].(map[string]any)["status"])
}
