package dto

import (
	"kidz-story-api/internal/application/auth"
	"kidz-story-api/internal/domain/entity"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	FullName string `json:"fullName" binding:"required,max=255"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OAuthRequest 身份提供方同步请求
type OAuthRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName"`
	Image    string `json:"image"`
	Provider string `json:"provider"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	IsAdmin      bool         `json:"isAdmin"`
	User         *entity.User `json:"user"`
}

// ToAuthResponse 转换登录结果
func ToAuthResponse(s *auth.Session) *AuthResponse {
	return &AuthResponse{
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
		ExpiresIn:    s.ExpiresIn,
		IsAdmin:      s.IsAdmin,
		User:         s.User,
	}
}
