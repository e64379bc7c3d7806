package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"kidz-story-api/internal/application/admin"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
	"kidz-story-api/internal/interfaces/http/dto"
)

// AdminService 管理后台用例
type AdminService interface {
	Stats(ctx context.Context, periodDays int) (*entity.DashboardStats, error)
	ListUsers(ctx context.Context, q admin.ListQuery) (*repository.PagedResult[*entity.UserSummary], error)
	ListStories(ctx context.Context, q admin.ListQuery) (*repository.PagedResult[*entity.StoryListing], error)
	DeleteUser(ctx context.Context, userID string) error
	DeleteStory(ctx context.Context, storyID string) error
	Settings() *admin.Settings
}

// AdminHandler 管理后台处理器
type AdminHandler struct {
	svc AdminService
}

// NewAdminHandler 创建管理后台处理器
func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Stats 仪表盘统计
// @Summary 统计数据
// @Tags Admin
// @Produce json
// @Param period query int false "统计天数，默认 30"
// @Success 200 {object} dto.Response[entity.DashboardStats]
// @Router /v1/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), dto.QueryInt(c, "period", admin.DefaultStatsPeriod))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, stats)
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[dto.UserListData]
// @Router /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	res, err := h.svc.ListUsers(c.Request.Context(), dto.BindListQuery(c, dto.AdminUsersPageSize))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.UserListData{Users: res.Items, Pagination: dto.NewPagination(res)})
}

// DeleteUser 删除用户及其故事
// @Summary 删除用户
// @Tags Admin
// @Param userId query string true "用户 ID"
// @Router /v1/admin/users [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Query("userId")); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Message(c, "User and associated stories deleted successfully")
}

// ListStories 故事列表
// @Summary 故事列表
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[dto.StoryListData]
// @Router /v1/admin/stories [get]
func (h *AdminHandler) ListStories(c *gin.Context) {
	res, err := h.svc.ListStories(c.Request.Context(), dto.BindListQuery(c, dto.AdminStoriesPageSize))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, dto.StoryListData{Stories: res.Items, Pagination: dto.NewPagination(res)})
}

// DeleteStory 删除故事
// @Summary 删除故事
// @Tags Admin
// @Param storyId query string true "故事 ID"
// @Router /v1/admin/stories [delete]
func (h *AdminHandler) DeleteStory(c *gin.Context) {
	if err := h.svc.DeleteStory(c.Request.Context(), c.Query("storyId")); err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Message(c, "Story deleted successfully")
}

// Settings 脱敏后的服务配置
// @Summary 系统设置
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.Response[admin.Settings]
// @Router /v1/admin/settings [get]
func (h *AdminHandler) Settings(c *gin.Context) {
	dto.Success(c, h.svc.Settings())
}
