package router

import (
	"github.com/gin-gonic/gin"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	cfg *config.Config,
	h Handlers,
	generateLimit gin.HandlerFunc,
	authRequired gin.HandlerFunc,
) {
	// 认证
	if h.Auth != nil {
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/oauth", middleware.OAuthSecret(cfg.Security.OAuth.SharedSecret), h.Auth.OAuth)
			auth.GET("/current-user/:id", h.Auth.CurrentUser)
		}
	}

	// 故事
	if h.Story != nil {
		v1.POST("/generate-story", generateLimit, h.Story.Generate)
		v1.GET("/stories", h.Story.ListStories)
		v1.GET("/stories/:id", h.Story.GetStory)
		v1.GET("/get-stories/:userId", h.Story.ListUserStories)
	}

	// 管理后台
	if h.Admin != nil {
		admin := v1.Group("/admin", authRequired, middleware.AdminOnly(cfg.Security.Admin))
		{
			admin.GET("/stats", h.Admin.Stats)
			admin.GET("/users", h.Admin.ListUsers)
			admin.DELETE("/users", h.Admin.DeleteUser)
			admin.GET("/stories", h.Admin.ListStories)
			admin.DELETE("/stories", h.Admin.DeleteStory)
			admin.GET("/settings", h.Admin.Settings)
		}
	}
}
