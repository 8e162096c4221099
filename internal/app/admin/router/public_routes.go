/**
 * 路由:公共路由
 * @description: 公共路由，包含登录、刷新令牌等不需要认证的路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupPublicRoutes 设置公共路由
func (r *Router) setupPublicRoutes(v1 *gin.RouterGroup) {
	// 认证相关公共路由(套用更严格的认证接口限流)
	auth := v1.Group("/auth")
	auth.Use(r.middlewareManager.GinAuthRateLimitMiddleware())
	{
		// 用户登录
		auth.POST("/login", r.authHandler.Login)
		// 刷新令牌(从body中传递refresh_token)
		auth.POST("/refresh", r.authHandler.Refresh)
	}
}
