package api

import (
	"net/http"

	"thrive/middleware"
	"thrive/service"

	"github.com/gin-gonic/gin"
)

const (
	msgExpenseNotFound = "Not found"
	msgExpenseDeleted  = "Deleted"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct {
	expenses *service.ExpenseService
}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler(expenses *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// ExpenseRequest 创建或部分更新消费记录，更新时未出现的字段保持不变
type ExpenseRequest struct {
	Amount      *float64 `json:"amount" binding:"omitempty,money" example:"42.5"`
	Category    *string  `json:"category" binding:"omitempty,max=100" example:"Food"`
	Description *string  `json:"description" binding:"omitempty,max=255" example:"Groceries"`
	Date        Date     `json:"date" swaggertype:"string" example:"2024-03-01"`
}

func (r ExpenseRequest) input() service.ExpenseInput {
	return service.ExpenseInput{
		Amount:      r.Amount,
		Category:    r.Category,
		Description: r.Description,
		Date:        r.Date.Ptr(),
	}
}

func (ExpenseRequest) nonNullFields() []string {
	return []string{"amount", "category", "description"}
}

// List 获取消费记录列表
// @Summary List expenses
// @Description The caller's 200 most recent expenses, newest first.
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Expense
// @Failure 401 {object} MessageResponse
// @Router /api/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	list, err := h.expenses.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get 获取单条消费记录
// @Summary Get expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} models.Expense
// @Failure 404 {object} MessageResponse
// @Router /api/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, msgExpenseNotFound)
	if !ok {
		return
	}
	expense, err := h.expenses.Get(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Create 创建消费记录
// @Summary Create expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "expense"
// @Success 201 {object} models.Expense
// @Failure 400 {object} MessageResponse
// @Router /api/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req ExpenseRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}
	expense, err := h.expenses.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req.input())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// Update 更新消费记录
// @Summary Update expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param request body ExpenseRequest true "fields to replace"
// @Success 200 {object} models.Expense
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := pathID(c, msgExpenseNotFound)
	if !ok {
		return
	}
	var req ExpenseRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}
	expense, err := h.expenses.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, req.input())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// Delete 删除消费记录
// @Summary Delete expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, msgExpenseNotFound)
	if !ok {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	Message(c, http.StatusOK, msgExpenseDeleted)
}
