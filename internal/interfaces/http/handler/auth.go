// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"kidz-story-api/internal/application/auth"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/interfaces/http/dto"
)

// AuthService 认证用例
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*auth.Session, error)
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	SyncOAuth(ctx context.Context, p auth.OAuthProfile) (*auth.Session, error)
	CurrentUser(ctx context.Context, id string) (*entity.User, error)
}

// AuthHandler 认证处理器
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register 注册
// @Summary 用户注册
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Created(c, dto.ToAuthResponse(sess))
}

// Login 登录
// @Summary 用户登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ToAuthResponse(sess))
}

// OAuth 身份提供方登录后同步用户
// @Summary 第三方登录同步
// @Tags Auth
// @Accept json
// @Produce json
// @Param X-OAuth-Secret header string true "共享密钥"
// @Param body body dto.OAuthRequest true "用户资料"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Router /v1/auth/oauth [post]
func (h *AuthHandler) OAuth(c *gin.Context) {
	var req dto.OAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.svc.SyncOAuth(c.Request.Context(), auth.OAuthProfile{
		Email:    req.Email,
		FullName: req.FullName,
		Image:    req.Image,
		Provider: req.Provider,
	})
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.ToAuthResponse(sess))
}

// CurrentUser 获取用户资料（不含密码）
// @Summary 当前用户
// @Tags Auth
// @Produce json
// @Param id path string true "用户 ID"
// @Success 200 {object} entity.User
// @Router /v1/auth/current-user/{id} [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	c.JSON(200, user)
}
