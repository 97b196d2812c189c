package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	OK  bool   `json:"ok"`
	Env string `json:"env" example:"release"`
}

// Health 健康检查，返回当前运行模式
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router / [get]
func Health(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{OK: true, Env: env})
	}
}
