package dto

import (
	"github.com/gin-gonic/gin"

	"kidz-story-api/internal/application/admin"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
)

// 管理后台列表默认每页条数
const (
	AdminUsersPageSize   = 10
	AdminStoriesPageSize = 10
)

// UserListData 用户列表
type UserListData struct {
	Users      []*entity.UserSummary `json:"users"`
	Pagination Pagination            `json:"pagination"`
}

// StoryListData 故事列表
type StoryListData struct {
	Stories    []*entity.StoryListing `json:"stories"`
	Pagination Pagination             `json:"pagination"`
}

// BindListQuery 读取管理后台列表查询参数
func BindListQuery(c *gin.Context, defaultLimit int) admin.ListQuery {
	return admin.ListQuery{
		Page:      QueryInt(c, "page", 1),
		Limit:     QueryInt(c, "limit", defaultLimit),
		Search:    c.Query("search"),
		Language:  c.Query("language"),
		AgeGroup:  c.Query("ageGroup"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
}

// NewPagination 由分页结果生成分页信息
func NewPagination[T any](r *repository.PagedResult[T]) Pagination {
	return Pagination{
		CurrentPage:     r.Page,
		TotalPages:      r.TotalPages,
		Total:           r.Total,
		HasNextPage:     r.HasNextPage(),
		HasPreviousPage: r.HasPreviousPage(),
	}
}
