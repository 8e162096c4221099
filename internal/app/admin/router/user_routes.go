/**
 * 路由:用户路由
 * @description: 包含需要JWT认证的用户相关路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupUserRoutes 设置用户认证路由
func (r *Router) setupUserRoutes(v1 *gin.RouterGroup) {
	// 认证相关路由（需要JWT认证）
	auth := v1.Group("/auth")
	auth.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		// 用户登出(吊销访问令牌并清理会话)
		auth.POST("/logout", r.authHandler.Logout)
		// 获取当前用户信息
		auth.GET("/me", r.authHandler.Me)
	}
}
