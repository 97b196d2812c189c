package api

import (
	"net/http"

	"thrive/middleware"
	"thrive/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"max=100" example:"Sam"`
	Email    string `json:"email" binding:"required,email,max=191" example:"sam@thrive.app"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"pass123"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"sam@thrive.app"`
	Password string `json:"password" binding:"required" example:"pass123"`
}

// Register 用户注册
// @Summary Register
// @Description Creates an account and returns a token for it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "account"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} MessageResponse "validation error or email already registered"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Login 用户登录
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} MessageResponse "Invalid credentials"
// @Failure 429 {object} MessageResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if msg, ok := bindJSON(c, &req); !ok {
		BadRequest(c, msg)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me 当前用户信息
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse "User not found"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.auth.Profile(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
