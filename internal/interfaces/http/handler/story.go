package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"kidz-story-api/internal/application/story"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/interfaces/http/dto"
	"kidz-story-api/pkg/logger"
)

// StoryGenerator 故事生成用例
type StoryGenerator interface {
	Generate(ctx context.Context, req *story.Request) (*story.Result, error)
}

// StoryReader 故事读取用例
type StoryReader interface {
	ListFeed(ctx context.Context, page, limit int) (*story.FeedPage, error)
	GetStory(ctx context.Context, id string) (*entity.Story, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Story, error)
}

// StoryHandler 故事处理器
type StoryHandler struct {
	generator StoryGenerator
	reader    StoryReader
}

// NewStoryHandler 创建故事处理器
func NewStoryHandler(generator StoryGenerator, reader StoryReader) *StoryHandler {
	return &StoryHandler{
		generator: generator,
		reader:    reader,
	}
}

// Generate 生成故事
// @Summary 生成故事
// @Description 生成正文、标题与插图并保存，插图失败时 imageUrl 为 null
// @Tags Story
// @Accept json
// @Produce json
// @Param body body dto.GenerateStoryRequest true "故事参数"
// @Success 200 {object} dto.GenerateStoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/generate-story [post]
func (h *StoryHandler) Generate(c *gin.Context) {
	var req dto.GenerateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.generator.Generate(c.Request.Context(), &req.Request)
	if err != nil {
		dto.FromError(c, err)
		return
	}

	logger.Info(c.Request.Context(), "story generated",
		"story_id", res.ID,
		"has_image", res.ImageURL != nil,
	)
	c.JSON(http.StatusOK, dto.GenerateStoryResponse{Success: true, Result: res})
}

// ListStories 公共故事流
// @Summary 故事列表
// @Tags Story
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页条数，默认 6"
// @Success 200 {object} dto.FeedResponse
// @Router /v1/stories [get]
func (h *StoryHandler) ListStories(c *gin.Context) {
	page, err := h.reader.ListFeed(c.Request.Context(),
		dto.QueryInt(c, "page", 1),
		dto.QueryInt(c, "limit", story.DefaultFeedLimit),
	)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FeedResponse{Success: true, FeedPage: page})
}

// GetStory 读取单个故事
// @Summary 故事详情
// @Tags Story
// @Produce json
// @Param id path string true "故事 ID"
// @Success 200 {object} dto.Response[entity.Story]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/stories/{id} [get]
func (h *StoryHandler) GetStory(c *gin.Context) {
	s, err := h.reader.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	dto.Success(c, s)
}

// ListUserStories 用户的全部故事
// @Summary 用户故事
// @Tags Story
// @Produce json
// @Param userId path string true "用户 ID"
// @Success 200 {object} dto.StoryListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/get-stories/{userId} [get]
func (h *StoryHandler) ListUserStories(c *gin.Context) {
	stories, err := h.reader.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		dto.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StoryListResponse{Success: true, Data: stories})
}
