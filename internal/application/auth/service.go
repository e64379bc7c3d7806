// Package auth 提供注册、登录与第三方身份同步
package auth

import (
	"context"
	"strings"
	"time"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
	"kidz-story-api/pkg/utils"
)

// 第三方资料缺少姓名时的占位
const defaultOAuthName = "Google User"

var (
	errEmailTaken      = apperrors.New(apperrors.CodeEmailAlreadyUsed, "Email already registered")
	errBadCredentials  = apperrors.New(apperrors.CodeInvalidPassword, "Invalid email or password")
	errUserIDMissing   = apperrors.New(apperrors.CodeUnauthorized, "Unauthorized user Id is required")
	errCurrentNotFound = apperrors.New(apperrors.CodeInvalidParam, "user was not found")
)

// Session 登录成功后的用户与令牌
type Session struct {
	User      *entity.User
	Tokens    *utils.TokenPair
	ExpiresIn int64
	IsAdmin   bool
}

// OAuthProfile 身份提供方回传的用户资料
type OAuthProfile struct {
	Email    string
	FullName string
	Image    string
	Provider string
}

// Service 认证服务
type Service struct {
	users      repository.UserRepository
	jwt        *utils.JWTManager
	admins     config.AdminConfig
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService 创建认证服务
func NewService(users repository.UserRepository, cfg *config.Config) *Service {
	accessTTL := cfg.Security.JWT.Expiration
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	refreshTTL := cfg.Security.JWT.RefreshExpiration
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		users:      users,
		jwt:        utils.NewJWTManager(cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer),
		admins:     cfg.Security.Admin,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// JWT 令牌管理器，供鉴权中间件复用
func (s *Service) JWT() *utils.JWTManager { return s.jwt }

// Register 邮箱密码注册
func (s *Service) Register(ctx context.Context, email, password, fullName string) (*Session, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if len(password) < entity.MinPasswordLength {
		missing = append(missing, "password")
	}
	if fullName == "" {
		missing = append(missing, "fullName")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError(missing...)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "registration failed")
	}
	if exists {
		return nil, errEmailTaken
	}

	user := entity.NewUser(email, fullName, entity.ProviderCredentials)
	if err := user.SetPassword(password); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "registration failed")
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "registration failed")
	}

	logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login 邮箱密码登录
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "login failed")
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, errBadCredentials
	}
	return s.issue(user)
}

// SyncOAuth 按邮箱查找或创建第三方登录用户
func (s *Service) SyncOAuth(ctx context.Context, p OAuthProfile) (*Session, error) {
	email := normalizeEmail(p.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "sign-in failed")
	}
	if user == nil {
		name := strings.TrimSpace(p.FullName)
		if name == "" {
			name = defaultOAuthName
		}
		user = entity.NewUser(email, name, p.Provider)
		if img := strings.TrimSpace(p.Image); img != "" {
			user.Image = &img
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "sign-in failed")
		}
		logger.Info(ctx, "oauth user created", "user_id", user.ID, "provider", user.Provider)
	}
	return s.issue(user)
}

// CurrentUser 获取用户资料
func (s *Service) CurrentUser(ctx context.Context, id string) (*entity.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errUserIDMissing
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "Something went wrong")
	}
	if user == nil {
		return nil, errCurrentNotFound
	}
	return user, nil
}

// IsAdmin 邮箱是否在管理员白名单
func (s *Service) IsAdmin(email string) bool {
	return s.admins.IsAdmin(email)
}

func (s *Service) issue(user *entity.User) (*Session, error) {
	tokens, err := s.jwt.GenerateTokenPair(utils.TokenSubject{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.FullName,
	}, s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternalError, "failed to generate tokens")
	}
	return &Session{
		User:      user,
		Tokens:    tokens,
		ExpiresIn: int64(s.accessTTL.Seconds()),
		IsAdmin:   s.admins.IsAdmin(user.Email),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
