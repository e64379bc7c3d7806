package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"kidz-story-api/internal/domain/entity"
)

// Models 需要迁移的表模型
func Models() []any {
	return []any{&userModel{}, &storyModel{}}
}

// userModel users 表
type userModel struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	PasswordHash *string   `gorm:"type:varchar(255)"`
	Provider     string    `gorm:"type:varchar(32);not null;default:google"`
	Image        *string   `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

func (m *userModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func newUserModel(u *entity.User) *userModel {
	m := &userModel{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Provider:  u.Provider,
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.PasswordHash != "" {
		hash := u.PasswordHash
		m.PasswordHash = &hash
	}
	return m
}

func (m *userModel) toEntity() *entity.User {
	u := &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		FullName:  m.FullName,
		Provider:  m.Provider,
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PasswordHash != nil {
		u.PasswordHash = *m.PasswordHash
	}
	return u
}

// storyModel stories 表
type storyModel struct {
	ID             string         `gorm:"type:varchar(36);primaryKey"`
	Title          string         `gorm:"type:text;not null"`
	AgeGroup       string         `gorm:"type:varchar(128);not null;index"`
	Language       string         `gorm:"type:varchar(64);not null;index"`
	FavoriteThings pq.StringArray `gorm:"type:text[]"`
	World          string         `gorm:"type:text;not null"`
	Theme          string         `gorm:"type:text;not null"`
	Mood           string         `gorm:"type:text;not null"`
	Story          string         `gorm:"type:text;not null"`
	ImageURL       *string        `gorm:"type:text"`
	Prompt         string         `gorm:"type:text;not null"`
	CreatedBy      string         `gorm:"type:varchar(36);not null"`
	UserID         string         `gorm:"type:varchar(36);not null;index"`
	CreatedAt      time.Time      `gorm:"not null;index"`
	UpdatedAt      time.Time      `gorm:"not null"`
}

func (storyModel) TableName() string { return "stories" }

func (m *storyModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func newStoryModel(s *entity.Story) *storyModel {
	return &storyModel{
		ID:             s.ID,
		Title:          s.Title,
		AgeGroup:       s.AgeGroup,
		Language:       s.Language,
		FavoriteThings: pq.StringArray(s.FavoriteThings),
		World:          s.World,
		Theme:          s.Theme,
		Mood:           s.Mood,
		Story:          s.Story,
		ImageURL:       s.ImageURL,
		Prompt:         s.Prompt,
		CreatedBy:      s.CreatedBy,
		UserID:         s.UserID,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (m *storyModel) toEntity() *entity.Story {
	favorites := []string(m.FavoriteThings)
	if favorites == nil {
		favorites = []string{}
	}
	return &entity.Story{
		ID:             m.ID,
		Title:          m.Title,
		AgeGroup:       m.AgeGroup,
		Language:       m.Language,
		FavoriteThings: favorites,
		World:          m.World,
		Theme:          m.Theme,
		Mood:           m.Mood,
		Story:          m.Story,
		ImageURL:       m.ImageURL,
		Prompt:         m.Prompt,
		CreatedBy:      m.CreatedBy,
		UserID:         m.UserID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func storiesToEntities(models []*storyModel) []*entity.Story {
	out := make([]*entity.Story, 0, len(models))
	for _, m := range models {
		out = append(out, m.toEntity())
	}
	return out
}
