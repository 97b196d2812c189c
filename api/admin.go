package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"thrive/middleware"
	"thrive/service"

	"github.com/gin-gonic/gin"
)

const (
	msgUserNotFound     = "User not found"
	msgUserDeleted      = "User and all associated data deleted successfully"
	msgAdminCreated     = "Admin user created successfully"
	msgBootstrapOff     = "Not found"
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileTimestamp = "20060102-150405"
)

// AdminHandler 后台管理处理器
type AdminHandler struct {
	admin            *service.AdminService
	export           *service.ExportService
	bootstrapEnabled bool
}

// NewAdminHandler 创建后台管理处理器
func NewAdminHandler(admin *service.AdminService, export *service.ExportService, bootstrapEnabled bool) *AdminHandler {
	return &AdminHandler{admin: admin, export: export, bootstrapEnabled: bootstrapEnabled}
}

// CreateAdminRequest 首个管理员
type CreateAdminRequest struct {
	Name     string `json:"name" binding:"max=100" example:"Admin"`
	Email    string `json:"email" binding:"required,email,max=191" example:"admin@thrive.app"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"s3cret!"`
}

// CreateAdminResponse 创建管理员结果
type CreateAdminResponse struct {
	Msg  string          `json:"msg"`
	User service.Profile `json:"user"`
}

// Users 用户列表
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Router /api/admin/users [get]
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Stats 全局统计
// @Summary Global counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Stats
// @Router /api/admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Expenses 全部消费记录
// @Summary Latest expenses of all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.AdminExpense
// @Router /api/admin/expenses [get]
func (h *AdminHandler) Expenses(c *gin.Context) {
	list, err := h.admin.ListExpenses(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Incomes 全部收入记录
// @Summary Latest incomes of all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.AdminIncome
// @Router /api/admin/incomes [get]
func (h *AdminHandler) Incomes(c *gin.Context) {
	list, err := h.admin.ListIncomes(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Goals 全部储蓄目标
// @Summary Savings goals of all users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.AdminGoal
// @Router /api/admin/goals [get]
func (h *AdminHandler) Goals(c *gin.Context) {
	list, err := h.admin.ListGoals(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteUser 删除用户及其全部数据
// @Summary Delete a user and all their data
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse "own account"
// @Failure 404 {object} MessageResponse
// @Router /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, msgUserNotFound)
	if !ok {
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), middleware.GetCurrentUserID(c), id); err != nil {
		RespondError(c, err)
		return
	}
	Message(c, http.StatusOK, msgUserDeleted)
}

// MakeAdmin 设为管理员
// @Summary Grant admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} models.User
// @Failure 404 {object} MessageResponse
// @Router /api/admin/users/{id}/make-admin [patch]
func (h *AdminHandler) MakeAdmin(c *gin.Context) {
	h.setAdmin(c, true)
}

// RemoveAdmin 取消管理员
// @Summary Revoke admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} models.User
// @Failure 400 {object} MessageResponse "own account"
// @Failure 404 {object} MessageResponse
// @Router /api/admin/users/{id}/remove-admin [patch]
func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	h.setAdmin(c, false)
}

func (h *AdminHandler) setAdmin(c *gin.Context, isAdmin bool) {
	id, ok := pathID(c, msgUserNotFound)
	if !ok {
		return
	}
	user, err := h.admin.SetAdmin(c.Request.Context(), middleware.GetCurrentUserID(c), id, isAdmin)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateAdmin 创建首个管理员
// @Summary Bootstrap the first admin
// @Description Unauthenticated. Only works while no admin exists and admin.bootstrap_enabled is on.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateAdminRequest true "admin account"
// @Success 200 {object} CreateAdminResponse
// @Failure 400 {object} MessageResponse "Admin already exists"
// @Failure 404 {object} MessageResponse "endpoint disabled"
// @Router /api/admin/create-admin [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	if !h.bootstrapEnabled {
		NotFound(c, msgBootstrapOff)
		return
	}

	var req CreateAdminRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}

	profile, err := h.admin.CreateBootstrapAdmin(c.Request.Context(), service.BootstrapInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CreateAdminResponse{Msg: msgAdminCreated, User: *profile})
}

// ExportExcel 导出 Excel
// @Summary Export all expenses and incomes
// @Description Workbook with an Expenses and an Incomes sheet.
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/admin/export/excel [get]
func (h *AdminHandler) ExportExcel(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.export.WriteWorkbook(c.Request.Context(), &buf); err != nil {
		RespondError(c, err)
		return
	}

	filename := fmt.Sprintf("thrive-export-%s.xlsx", time.Now().UTC().Format(exportFileTimestamp))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
