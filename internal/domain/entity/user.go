// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// 用户来源
const (
	ProviderGoogle      = "google"
	ProviderCredentials = "credentials"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 6

// User 用户实体
type User struct {
	ID           string    `json:"_id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // 不在 JSON 中暴露
	Provider     string    `json:"provider"`
	Image        *string   `json:"image"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser 创建新用户
func NewUser(email, fullName, provider string) *User {
	now := time.Now()
	if provider == "" {
		provider = ProviderGoogle
	}
	return &User{
		Email:     email,
		FullName:  fullName,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码，第三方登录用户没有密码
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// UserSummary 管理后台用户行，附带读取时计算的故事统计
type UserSummary struct {
	User
	StoryCount    int64      `json:"storyCount"`
	LastStoryDate *time.Time `json:"lastStoryDate"`
}
