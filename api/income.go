package api

import (
	"net/http"

	"thrive/middleware"
	"thrive/service"

	"github.com/gin-gonic/gin"
)

const (
	msgIncomeNotFound = "Income not found"
	msgIncomeDeleted  = "Income deleted successfully"
)

// IncomeHandler 收入记录处理器
type IncomeHandler struct {
	incomes *service.IncomeService
}

// NewIncomeHandler 创建收入记录处理器
func NewIncomeHandler(incomes *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomes: incomes}
}

// IncomeRequest 创建或部分更新收入记录
type IncomeRequest struct {
	Amount *float64 `json:"amount" binding:"omitempty,money" example:"2500"`
	Source *string  `json:"source" binding:"omitempty,max=100" example:"Salary"`
	Date   Date     `json:"date" swaggertype:"string" example:"2024-03-01"`
}

func (r IncomeRequest) input() service.IncomeInput {
	return service.IncomeInput{Amount: r.Amount, Source: r.Source, Date: r.Date.Ptr()}
}

func (IncomeRequest) nonNullFields() []string {
	return []string{"amount", "source"}
}

// List 获取收入列表
// @Summary List incomes
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Income
// @Router /api/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	list, err := h.incomes.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取单条收入
// @Summary Get income
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Success 200 {object} models.Income
// @Failure 404 {object} MessageResponse
// @Router /api/incomes/{id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	id, ok := pathID(c, msgIncomeNotFound)
	if !ok {
		return
	}
	income, err := h.incomes.Get(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}

// Create 创建收入
// @Summary Create income
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IncomeRequest true "income"
// @Success 201 {object} models.Income
// @Failure 400 {object} MessageResponse
// @Router /api/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	var req IncomeRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}
	income, err := h.incomes.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req.input())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, income)
}

// Update 更新收入
// @Summary Update income
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Param request body IncomeRequest true "fields to replace"
// @Success 200 {object} models.Income
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	id, ok := pathID(c, msgIncomeNotFound)
	if !ok {
		return
	}
	var req IncomeRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}
	income, err := h.incomes.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, req.input())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, income)
}

// Delete 删除收入
// @Summary Delete income
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, msgIncomeNotFound)
	if !ok {
		return
	}
	if err := h.incomes.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	Message(c, http.StatusOK, msgIncomeDeleted)
}
