// Package middleware 提供 HTTP 中间件
package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/interfaces/http/dto"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
	"kidz-story-api/pkg/utils"
)

// OAuthSecretHeader 服务端到服务端身份同步使用的共享密钥头
const OAuthSecretHeader = "X-OAuth-Secret"

// Gin Context 键
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// TokenParser 解析访问令牌
type TokenParser interface {
	ParseToken(token string) (*utils.Claims, error)
}

// Auth 校验 Bearer 访问令牌并注入用户信息
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, apperrors.ErrTokenMissing)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abortUnauthorized(c, apperrors.ErrTokenInvalid)
			return
		}

		claims, err := parser.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				abortUnauthorized(c, apperrors.ErrTokenExpired)
				return
			}
			abortUnauthorized(c, apperrors.ErrTokenInvalid)
			return
		}
		if claims.Type != "access" {
			abortUnauthorized(c, apperrors.ErrTokenInvalid)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), logger.UserIDKey, claims.UserID))

		c.Next()
	}
}

// AdminOnly 仅允许管理员白名单中的邮箱访问，需在 Auth 之后使用
func AdminOnly(admins config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmail)
		if email == "" {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}
		if !admins.IsAdmin(email) {
			logger.Warn(c.Request.Context(), "non-admin access to admin route", "path", c.FullPath())
			dto.AbortError(c, http.StatusForbidden, apperrors.CodeAdminRequired, apperrors.ErrAdminRequired.Message)
			return
		}
		c.Next()
	}
}

// OAuthSecret 校验共享密钥，未配置密钥时拒绝全部请求
func OAuthSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(OAuthSecretHeader)
		if secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			abortUnauthorized(c, apperrors.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err *apperrors.AppError) {
	dto.AbortError(c, http.StatusUnauthorized, err.Code, err.Message)
}
