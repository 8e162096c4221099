/*
 * @description: 通用的工具包
 * @func:
 */

package utils

import (
	"context"

	"adminboard/internal/model/system"

	"github.com/gin-gonic/gin"
)

// ContextKey 类型用于标准上下文键的定义，避免使用裸字符串造成键冲突
type ContextKey string

// ContextKeyClientIP 标准上下文中存储客户端IP的统一键
const ContextKeyClientIP ContextKey = "client_ip"

// GetCurrentUserIDFromGinContext 从 Gin 上下文中提取当前用户ID
// 如果不存在则返回0，轻校验
// 来源：user_id 最初是JWT中间件写入Gin上下文 GinJWTAuthMiddleware() 中
func GetCurrentUserIDFromGinContext(c *gin.Context) uint64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}

// GetActorFromGinContext 从 Gin 上下文中提取当前操作者
// 来源：actor 是JWT中间件写入Gin上下文 GinJWTAuthMiddleware() 中
// 不存在时返回零值Actor
func GetActorFromGinContext(c *gin.Context) system.Actor {
	if v, ok := c.Get("actor"); ok {
		if actor, ok2 := v.(system.Actor); ok2 {
			return actor
		}
	}
	return system.Actor{}
}

// GetClientIPFromContext 从标准上下文读取客户端IP（统一键）
// 适用范围：service 层以下获取当前 clientIP 使用
// 来源：clientIP 最初是logging中间件写入标准上下文 GinLoggingMiddleware() 中
// 说明：
// - 使用 ContextKeyClientIP 作为唯一键，保证读写一致，跨包可用
// - 如果不存在或类型不匹配，返回空字符串
func GetClientIPFromContext(ctx context.Context) string {
	v := ctx.Value(ContextKeyClientIP)
	if ip, ok := v.(string); ok {
		return ip
	}
	return ""
}
