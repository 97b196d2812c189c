package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"thrive/models"
	"thrive/repository"

	"github.com/gin-gonic/gin"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
	msgNotAdmin     = "Access denied. Admin privileges required."
	msgServerError  = "Server error"

	principalKey = "principal"
	// LegacyTokenHeader 未携带 Authorization 时读取
	LegacyTokenHeader = "x-auth-token"
)

// TrustPolicy 令牌信任策略
type TrustPolicy int

const (
	// ClaimsOnly 只信任令牌中的 id 与 email，不查库
	ClaimsOnly TrustPolicy = iota
	// StoreVerified 额外查库，已删除账号的令牌无效
	StoreVerified
)

// UserLookup 按 id 加载用户
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// Principal 当前请求的认证主体
type Principal struct {
	ID    uint
	Email string
	// User 查库后写入（StoreVerified 或 RequireAdmin）
	User *models.User
}

// Authenticate JWT 认证中间件
// 校验令牌并写入 Principal，ClaimsOnly 策略下 users 可为 nil
func Authenticate(tokens *TokenManager, policy TrustPolicy, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			abort(c, http.StatusUnauthorized, msgNoToken)
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			abort(c, http.StatusUnauthorized, msgInvalidToken)
			return
		}

		principal := &Principal{ID: claims.UserID, Email: claims.Email}
		if policy == StoreVerified {
			user, ok := loadUser(c, users, claims.UserID)
			if !ok {
				return
			}
			principal.Email = user.Email
			principal.User = user
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin 管理员权限中间件，需在 Authenticate 之后
// 用户在本次请求内从数据库读取，撤销管理员立即生效
func RequireAdmin(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			abort(c, http.StatusUnauthorized, msgNoToken)
			return
		}

		// 本次请求已由 StoreVerified 加载
		user := principal.User
		if user == nil {
			if user, ok = loadUser(c, users, principal.ID); !ok {
				return
			}
		}
		if !user.IsAdmin {
			abort(c, http.StatusForbidden, msgNotAdmin)
			return
		}

		principal.User = user
		c.Next()
	}
}

// loadUser 加载失败时终止请求并返回 false
func loadUser(c *gin.Context, users UserLookup, id uint) (*models.User, bool) {
	user, err := users.FindByID(c.Request.Context(), id)
	if err == nil {
		return user, true
	}
	if errors.Is(err, repository.ErrNotFound) {
		abort(c, http.StatusUnauthorized, msgInvalidToken)
		return nil, false
	}
	slog.ErrorContext(c.Request.Context(), "load user for auth",
		"request_id", GetRequestID(c), "user_id", id, "error", err)
	abort(c, http.StatusInternalServerError, msgServerError)
	return nil, false
}

// extractToken 优先读取 "Authorization: Bearer <token>"，其次 x-auth-token
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(c.GetHeader(LegacyTokenHeader))
}

// CurrentPrincipal 获取当前认证主体
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}

// GetCurrentUserID 获取当前用户 ID，未认证时返回 0
func GetCurrentUserID(c *gin.Context) uint {
	if p, ok := CurrentPrincipal(c); ok {
		return p.ID
	}
	return 0
}

// SetPrincipal 写入认证主体
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"msg": msg})
}
