package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/application/story"
)

func TestGenerateStoryRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"flat", `{"userId":"u1","ageGroup":"3-5","language":"Urdu","world":"Sea"}`},
		{"wrapped", `{"reqData":{"userId":"u1","ageGroup":"3-5","language":"Urdu","world":"Sea"}}`},
		{"null wrapper falls back", `{"reqData":null,"userId":"u1","ageGroup":"3-5","language":"Urdu","world":"Sea"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req GenerateStoryRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, "u1", req.UserID)
			assert.Equal(t, "Urdu", req.Language)
			assert.Equal(t, []string{"3-5"}, req.AgeGroup.Values())
			assert.Equal(t, []string{"Sea"}, req.World.Values())
		})
	}
}

func TestGenerateStoryResponse_Flattened(t *testing.T) {
	out, err := json.Marshal(GenerateStoryResponse{Success: true, Result: &story.Result{ID: "s1", Title: "Moon"}})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, true, m["success"])
	assert.Equal(t, "s1", m["id"])
	assert.Equal(t, "Moon", m["title"])
	assert.Contains(t, m, "imageUrl")
}
