package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/application/admin"
	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
	"kidz-story-api/internal/interfaces/http/handler"
	"kidz-story-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAdmin struct{}

func (stubAdmin) Stats(context.Context, int) (*entity.DashboardStats, error) {
	return &entity.DashboardStats{Period: 30}, nil
}

func (stubAdmin) ListUsers(context.Context, admin.ListQuery) (*repository.PagedResult[*entity.UserSummary], error) {
	return repository.NewPagedResult[*entity.UserSummary](nil, 0, repository.NewPagination(1, 10)), nil
}

func (stubAdmin) ListStories(context.Context, admin.ListQuery) (*repository.PagedResult[*entity.StoryListing], error) {
	return repository.NewPagedResult[*entity.StoryListing](nil, 0, repository.NewPagination(1, 10)), nil
}

func (stubAdmin) DeleteUser(context.Context, string) error  { return nil }
func (stubAdmin) DeleteStory(context.Context, string) error { return nil }
func (stubAdmin) Settings() *admin.Settings                 { return &admin.Settings{} }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "kidz-story-api"
	cfg.Security.Admin.Emails = []string{"boss@example.com"}
	cfg.Observability.Metrics.Enabled = true
	return cfg
}

func TestRouter_AdminGuard(t *testing.T) {
	jwt := utils.NewJWTManager("secret", "kidz")
	r := New(testConfig(), Handlers{
		Health: handler.NewHealthHandler("test"),
		Admin:  handler.NewAdminHandler(stubAdmin{}),
	}, jwt, nil, nil)

	boss, err := jwt.GenerateToken(utils.TokenSubject{UserID: "a", Email: "boss@example.com"}, "access", time.Hour)
	require.NoError(t, err)
	kid, err := jwt.GenerateToken(utils.TokenSubject{UserID: "k", Email: "kid@example.com"}, "access", time.Hour)
	require.NoError(t, err)

	request := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request(boss))
	assert.Equal(t, http.StatusForbidden, request(kid))
	assert.Equal(t, http.StatusUnauthorized, request(""))
}

func TestRouter_SystemRoutes(t *testing.T) {
	r := New(testConfig(), Handlers{Health: handler.NewHealthHandler("test")}, utils.NewJWTManager("s", "i"), nil, nil)

	for _, path := range []string{"/health", "/ready", "/live", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.Engine().ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/stories", nil)
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code, "story routes absent without handler")
}
