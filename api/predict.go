package api

import (
	"net/http"
	"strconv"

	"thrive/middleware"
	"thrive/service"

	"github.com/gin-gonic/gin"
)

// PredictHandler 统计与预测处理器
type PredictHandler struct {
	analytics *service.AnalyticsService
}

// NewPredictHandler 创建统计与预测处理器
func NewPredictHandler(analytics *service.AnalyticsService) *PredictHandler {
	return &PredictHandler{analytics: analytics}
}

// Predict 预测下月支出
// @Summary Next month spending estimate
// @Description Mean of the 12 most recent expenses times 1.05. A heuristic, not a model.
// @Tags predict
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Forecast
// @Router /api/predict [get]
func (h *PredictHandler) Predict(c *gin.Context) {
	forecast, err := h.analytics.Predict(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, forecast)
}

// Dashboard 月度概览
// @Summary Monthly dashboard
// @Tags predict
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Router /api/predict/dashboard [get]
func (h *PredictHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analytics.Dashboard(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// CategoryAnalytics 分类统计
// @Summary Spending by category
// @Tags predict
// @Produce json
// @Security BearerAuth
// @Param months query int false "lookback in months (1-120)" default(3)
// @Success 200 {array} service.CategoryAmount
// @Failure 400 {object} MessageResponse
// @Router /api/predict/analytics/categories [get]
func (h *PredictHandler) CategoryAnalytics(c *gin.Context) {
	months := service.DefaultAnalyticsMonths
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			BadRequest(c, `"months" must be a number`)
			return
		}
		months = n
	}

	list, err := h.analytics.CategoryAnalytics(c.Request.Context(), middleware.GetCurrentUserID(c), months)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
