package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/config"
	"kidz-story-api/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(jwt *utils.JWTManager, admins config.AdminConfig) *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID)+"|"+c.GetString(ContextEmail))
	})
	r.GET("/admin", Auth(jwt), AdminOnly(admins), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestAuth(t *testing.T) {
	jwt := utils.NewJWTManager("test-secret", "kidz")
	pair, err := jwt.GenerateTokenPair(utils.TokenSubject{UserID: "u1", Email: "kid@example.com"}, time.Hour, 2*time.Hour)
	require.NoError(t, err)

	r := newAuthEngine(jwt, config.AdminConfig{})

	w := do(r, "/me", bearer(pair.AccessToken))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1|kid@example.com", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", nil).Code, "missing header")
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", http.Header{"Authorization": []string{pair.AccessToken}}).Code, "no bearer prefix")
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", bearer(pair.RefreshToken)).Code, "refresh token rejected")
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", bearer("garbage")).Code)
}

func TestAdminOnly(t *testing.T) {
	jwt := utils.NewJWTManager("test-secret", "kidz")
	r := newAuthEngine(jwt, config.AdminConfig{Emails: []string{"Boss@Example.com"}})

	admin, err := jwt.GenerateToken(utils.TokenSubject{UserID: "a", Email: "boss@example.com"}, "access", time.Hour)
	require.NoError(t, err)
	user, err := jwt.GenerateToken(utils.TokenSubject{UserID: "u", Email: "kid@example.com"}, "access", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, do(r, "/admin", bearer(admin)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", bearer(user)).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", nil).Code)
}

func TestOAuthSecret(t *testing.T) {
	build := func(secret string) *gin.Engine {
		r := gin.New()
		r.GET("/oauth", OAuthSecret(secret), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}

	r := build("s3cret")
	assert.Equal(t, http.StatusNoContent, do(r, "/oauth", http.Header{OAuthSecretHeader: []string{"s3cret"}}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/oauth", http.Header{OAuthSecretHeader: []string{"nope"}}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/oauth", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, do(build(""), "/oauth", nil).Code, "unset secret rejects everything")
}
