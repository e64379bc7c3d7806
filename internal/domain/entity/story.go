package entity

import "time"

// Story 已保存的故事
type Story struct {
	ID             string    `json:"_id"`
	Title          string    `json:"title"`
	AgeGroup       string    `json:"ageGroup"`
	Language       string    `json:"language"`
	FavoriteThings []string  `json:"favoriteThings"`
	World          string    `json:"world"`
	Theme          string    `json:"theme"`
	Mood           string    `json:"mood"`
	Story          string    `json:"story"`
	ImageURL       *string   `json:"imageUrl"` // 插图生成失败时为 nil
	Prompt         string    `json:"prompt"`
	CreatedBy      string    `json:"createdBy"`
	UserID         string    `json:"userId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// HasImage 是否带有插图
func (s *Story) HasImage() bool {
	return s.ImageURL != nil && *s.ImageURL != ""
}

// StoryListing 管理后台故事行，附带作者信息
type StoryListing struct {
	Story
	AuthorName  string `json:"authorName,omitempty"`
	AuthorEmail string `json:"authorEmail,omitempty"`
}
