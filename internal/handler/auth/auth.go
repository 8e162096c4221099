/**
 * 处理器:认证接口
 * @description: 登录、登出、令牌刷新与当前用户查询接口
 * @func: Handler 及各Gin处理方法
 */
package auth

import (
	"net/http"
	"strings"

	"adminboard/internal/handler/respond"
	"adminboard/internal/model"
	authpkg "adminboard/internal/pkg/auth"
	"adminboard/internal/pkg/utils"
	"adminboard/internal/service/auth"

	"github.com/gin-gonic/gin"
)

// Handler 认证接口处理器
type Handler struct {
	sessionService *auth.SessionService
}

// NewHandler 创建认证处理器实例
func NewHandler(sessionService *auth.SessionService) *Handler {
	return &Handler{sessionService: sessionService}
}

// loginStatusCode 按登录错误内容映射HTTP状态码
func loginStatusCode(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid username or password"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "user account is disabled"):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Login 用户登录接口
// POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	clientIP := utils.NormalizeIP(c.ClientIP())
	resp, err := h.sessionService.Login(c.Request.Context(), &req, clientIP, c.Request.UserAgent())
	if err != nil {
		respond.Error(c, loginStatusCode(err), "login failed", err)
		return
	}
	respond.Success(c, "login successful", resp)
}

// Logout 用户登出接口,吊销访问令牌并清理会话
// POST /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	token := authpkg.ExtractTokenFromHeader(c.GetHeader("Authorization"))
	if token == "" {
		respond.Error(c, http.StatusUnauthorized, "missing access token", nil)
		return
	}

	if err := h.sessionService.Logout(c.Request.Context(), token); err != nil {
		respond.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}
	respond.Success(c, "logout successful", nil)
}

// Refresh 令牌刷新接口
// POST /api/v1/auth/refresh
func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.sessionService.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		respond.Error(c, http.StatusUnauthorized, "token refresh failed", err)
		return
	}
	respond.Success(c, "token refreshed", resp)
}

// Me 当前用户信息接口
// GET /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	userID := utils.GetCurrentUserIDFromGinContext(c)
	if userID == 0 {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	info, err := h.sessionService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		respond.BusinessError(c, "failed to get current user", err)
		return
	}
	respond.Success(c, "current user retrieved", info)
}
