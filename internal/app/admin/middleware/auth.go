/**
 * 中间件:认证相关中间件
 * @description: 定义认证相关中间件
 * @func:
 *   - GinJWTAuthMiddleware: Gin JWT认证中间件
 *   - extractTokenFromGinHeader: 从Gin请求头中提取JWT令牌
 */
package middleware

import (
	"net/http"
	"strings"

	"adminboard/internal/model"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GinJWTAuthMiddleware Gin JWT认证中间件
// 验证请求头中的JWT令牌，并将用户信息存储到Gin上下文中
// 使用方式: router.Use(middlewareManager.GinJWTAuthMiddleware())
func (m *MiddlewareManager) GinJWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 提取参数
		clientIP := utils.GetClientIP(c)
		XRequestID := c.GetHeader("X-Request-ID")
		userAgent := c.GetHeader("User-Agent")

		// 从请求头中提取访问令牌
		accessToken, err := m.extractTokenFromGinHeader(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.APIResponse{
				Code:    http.StatusUnauthorized,
				Status:  "failed",
				Message: "missing or invalid authorization header",
				Error:   err.Error(),
			})
			c.Abort()
			return // 认证失败，直接返回
		}

		// 验证令牌 accessToken
		user, err := m.sessionService.ValidateSession(c.Request.Context(), accessToken)
		if err != nil {
			// 记录错误日志
			logger.LogError(err, XRequestID, 0, clientIP, "token_validation", c.Request.Method, map[string]interface{}{
				"operation":    "token_validation",
				"client_ip":    clientIP,
				"user_agent":   userAgent,
				"X-Request-ID": XRequestID,
				"timestamp":    logger.NowFormatted(),
			})
			c.JSON(http.StatusUnauthorized, model.APIResponse{
				Code:    http.StatusUnauthorized,
				Status:  "failed",
				Message: "invalid or expired token",
				Error:   err.Error(),
			})
			c.Abort()
			return
		}

		// 将用户信息添加到Gin上下文
		// actor携带姓名/团队/部门信息，变更日志记录时直接使用
		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set("actor", user.Actor())

		// 继续处理请求
		c.Next()
	}
}

// =============================================================================
// 辅助方法
// =============================================================================

// extractTokenFromGinHeader 从Gin请求头中提取访问令牌
// 参数: c - Gin上下文
// 返回: 访问令牌字符串和可能的错误
func (m *MiddlewareManager) extractTokenFromGinHeader(c *gin.Context) (string, error) {
	authorization := c.GetHeader("Authorization")
	if authorization == "" {
		return "", &model.ValidationError{Field: "authorization", Message: "authorization header is required"}
	}

	// 检查Bearer前缀
	if !strings.HasPrefix(authorization, "Bearer ") {
		return "", &model.ValidationError{Field: "authorization", Message: "authorization header must start with 'Bearer '"}
	}

	// 提取令牌
	token := strings.TrimPrefix(authorization, "Bearer ")
	if token == "" {
		return "", &model.ValidationError{Field: "authorization", Message: "access token cannot be empty"}
	}

	return token, nil
}
