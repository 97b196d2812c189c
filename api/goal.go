package api

import (
	"net/http"

	"thrive/middleware"
	"thrive/service"

	"github.com/gin-gonic/gin"
)

const (
	msgGoalNotFound = "Savings goal not found"
	msgGoalDeleted  = "Savings goal deleted successfully"
)

// GoalHandler 储蓄目标处理器
type GoalHandler struct {
	goals *service.GoalService
}

// NewGoalHandler 创建储蓄目标处理器
func NewGoalHandler(goals *service.GoalService) *GoalHandler {
	return &GoalHandler{goals: goals}
}

// GoalRequest 创建或部分更新储蓄目标，"deadline": null 清空截止日期
type GoalRequest struct {
	Title         *string  `json:"title" binding:"omitempty,max=200" example:"Emergency fund"`
	TargetAmount  *float64 `json:"targetAmount" binding:"omitempty,money" example:"1000"`
	CurrentAmount *float64 `json:"currentAmount" binding:"omitempty,money" example:"0"`
	Deadline      Date     `json:"deadline" swaggertype:"string" example:"2024-12-31"`
}

func (r GoalRequest) input() service.GoalInput {
	return service.GoalInput{
		Title:         r.Title,
		TargetAmount:  r.TargetAmount,
		CurrentAmount: r.CurrentAmount,
		Deadline:      r.Deadline.Ptr(),
		ClearDeadline: r.Deadline.Present && r.Deadline.Null,
	}
}

func (GoalRequest) nonNullFields() []string {
	return []string{"title", "targetAmount", "currentAmount"}
}

// AddFundsRequest 追加金额
type AddFundsRequest struct {
	Amount *float64 `json:"amount" example:"50"`
}

func (AddFundsRequest) nonNullFields() []string {
	return []string{"amount"}
}

// List 获取储蓄目标列表
// @Summary List savings goals
// @Description Ordered by deadline, goals without one last.
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.SavingsGoal
// @Router /api/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goals.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// Get 获取单个储蓄目标
// @Summary Get savings goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Success 200 {object} models.SavingsGoal
// @Failure 404 {object} MessageResponse
// @Router /api/goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := pathID(c, msgGoalNotFound)
	if !ok {
		return
	}
	goal, err := h.goals.Get(c.Request.Context(), middleware.GetCurrentUserID(c), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Create 创建储蓄目标
// @Summary Create savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body GoalRequest true "goal"
// @Success 201 {object} models.SavingsGoal
// @Failure 400 {object} MessageResponse
// @Router /api/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req GoalRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}
	goal, err := h.goals.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req.input())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// Update 更新储蓄目标
// @Summary Update savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Param request body GoalRequest true "fields to replace"
// @Success 200 {object} models.SavingsGoal
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := pathID(c, msgGoalNotFound)
	if !ok {
		return
	}
	var req GoalRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}
	goal, err := h.goals.Update(c.Request.Context(), middleware.GetCurrentUserID(c), id, req.input())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// AddFunds 向储蓄目标追加金额
// @Summary Add funds to a goal
// @Description Atomically increments currentAmount. The amount must be positive.
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Param request body AddFundsRequest true "amount to add"
// @Success 200 {object} models.SavingsGoal
// @Failure 400 {object} MessageResponse "Amount must be positive"
// @Failure 404 {object} MessageResponse
// @Router /api/goals/{id}/add [patch]
func (h *GoalHandler) AddFunds(c *gin.Context) {
	id, ok := pathID(c, msgGoalNotFound)
	if !ok {
		return
	}
	var req AddFundsRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}
	goal, err := h.goals.AddFunds(c.Request.Context(), middleware.GetCurrentUserID(c), id, req.Amount)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Delete 删除储蓄目标
// @Summary Delete savings goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path int true "goal id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, msgGoalNotFound)
	if !ok {
		return
	}
	if err := h.goals.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	Message(c, http.StatusOK, msgGoalDeleted)
}
