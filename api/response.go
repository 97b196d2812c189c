package api

import (
	"errors"
	"log/slog"
	"net/http"

	"thrive/config"
	"thrive/middleware"
	"thrive/service"

	"github.com/gin-gonic/gin"
)

const msgServerError = "Server error"

// MessageResponse 错误与删除确认的响应体
type MessageResponse struct {
	Msg string `json:"msg" example:"Not found"`
}

// Message 以指定状态码返回 {"msg": msg}
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageResponse{Msg: msg})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, msg string) {
	Message(c, http.StatusBadRequest, msg)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, msg string) {
	Message(c, http.StatusNotFound, msg)
}

// InternalError 500 错误响应
// 记录带 request id 的错误日志，仅 debug 模式向客户端返回原始错误
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	slog.ErrorContext(c.Request.Context(), "request failed",
		"request_id", middleware.GetRequestID(c),
		"path", c.FullPath(),
		"error", err)
	Message(c, http.StatusInternalServerError, config.SafeErrorMessage(err, msgServerError))
}

// RespondError 将业务错误映射为 HTTP 状态码
func RespondError(c *gin.Context, err error) {
	msg, known := service.Message(err)
	if !known {
		InternalError(c, err)
		return
	}

	status := http.StatusBadRequest
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	}
	Message(c, status, msg)
}
