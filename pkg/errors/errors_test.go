package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeValidationFailed:      http.StatusBadRequest,
		CodeUnauthorized:          http.StatusUnauthorized,
		CodeAdminRequired:         http.StatusForbidden,
		CodeStoryLimitReached:     http.StatusForbidden,
		CodeStoryNotFound:         http.StatusNotFound,
		CodeUpstreamOverloaded:    http.StatusServiceUnavailable,
		CodeNotConfigured:         http.StatusServiceUnavailable,
		CodeLLMCallFailed:         http.StatusInternalServerError,
		CodeImageGenerationFailed: http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, "code %s", code)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("world", "mood")
	assert.Equal(t, "Missing or invalid fields: world, mood", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestNewOverloadedError(t *testing.T) {
	assert.Contains(t, NewOverloadedError(stderrors.New("quota exceeded")).Message, "quota")
	assert.Contains(t, NewOverloadedError(stderrors.New("model overloaded")).Message, "overloaded")
}

func TestAsAppError_UnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("save: %w", ErrStoryLimitReached)
	assert.True(t, IsAppError(wrapped))
	assert.True(t, IsCode(wrapped, CodeStoryLimitReached))
	assert.Equal(t, CodeStoryLimitReached, AsAppError(wrapped).Code)

	plain := AsAppError(stderrors.New("boom"))
	assert.Equal(t, CodeUnknown, plain.Code)
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus)
}
