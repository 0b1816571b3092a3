package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"atlasdcat/internal/glossary"
	"atlasdcat/internal/mapper"
	"atlasdcat/internal/storage"
)

// Response 统一响应格式
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Errors    []ErrorItem `json:"errors,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorItem 错误项
type ErrorItem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ValidationError 验证错误响应
func ValidationError(c *gin.Context, errors []ErrorItem) {
	c.JSON(http.StatusBadRequest, Response{
		Code:      http.StatusBadRequest,
		Message:   "validation failed",
		Errors:    errors,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// ServiceError 按错误类型返回响应
func ServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	Error(c, StatusFor(err), err.Error())
}

// StatusFor 错误对应的 HTTP 状态码
func StatusFor(err error) int {
	var apiErr *glossary.APIError
	switch {
	case errors.Is(err, mapper.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, mapper.ErrMapping):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
