// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "kidz-story-api/pkg/errors"
	"kidz-story-api/pkg/logger"
)

// Response 统一成功响应
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse 统一错误响应，error 为可直接展示给用户的文案
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// Success 返回 200 与数据
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, Response[T]{Success: true, Data: data})
}

// Created 返回 201 与数据
func Created[T any](c *gin.Context, data T) {
	c.JSON(http.StatusCreated, Response[T]{Success: true, Data: data})
}

// Message 返回 200 与提示信息
func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response[any]{Success: true, Message: msg})
}

// Error 返回指定状态码的错误
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Error:   message,
		TraceID: c.GetString("trace_id"),
	})
}

// AbortError 终止后续处理并返回错误
func AbortError(c *gin.Context, httpCode int, code apperrors.ErrorCode, message string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{
		Error:   message,
		Code:    string(code),
		TraceID: c.GetString("trace_id"),
	})
}

// FromError 按 AppError 映射状态码与文案，未知错误统一为 500
func FromError(c *gin.Context, err error) {
	appErr := apperrors.AsAppError(err)
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError && !apperrors.IsAppError(err) {
		logger.Error(c.Request.Context(), "unhandled error", err, "path", c.FullPath())
	}
	c.JSON(status, ErrorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		TraceID: c.GetString("trace_id"),
	})
}

// BadRequest 返回 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 返回 401 错误
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 返回 404 错误
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Pagination 管理后台列表分页信息
type Pagination struct {
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int   `json:"totalPages"`
	Total           int64 `json:"total"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}
