package dto

import (
	"bytes"
	"encoding/json"

	"kidz-story-api/internal/application/story"
	"kidz-story-api/internal/domain/entity"
)

// GenerateStoryRequest 生成请求，兼容前端包一层 reqData 的写法
type GenerateStoryRequest struct {
	story.Request
}

// UnmarshalJSON 优先解析 reqData 字段
func (r *GenerateStoryRequest) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		ReqData json.RawMessage `json:"reqData"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if raw := bytes.TrimSpace(wrapper.ReqData); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		data = raw
	}
	return json.Unmarshal(data, &r.Request)
}

// GenerateStoryResponse 生成成功响应，故事字段平铺在顶层
type GenerateStoryResponse struct {
	Success bool `json:"success"`
	*story.Result
}

// FeedResponse 公共故事流响应
type FeedResponse struct {
	Success bool `json:"success"`
	*story.FeedPage
}

// StoryListResponse 用户故事列表响应
type StoryListResponse struct {
	Success bool            `json:"success"`
	Data    []*entity.Story `json:"data"`
}
