/**
 * 中间件:日志相关中间件
 * @description: 定义日志中间件
 * @func:
 *   - GinLoggingMiddleware Gin日志中间件[同时把客户端IP存储到Gin上下文和标准上下文,供后续使用]
 */
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"adminboard/internal/pkg/logger"
	"adminboard/internal/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// GinLoggingMiddleware Gin日志中间件
// 记录所有HTTP请求的访问日志和错误日志
// 使用方式: router.Use(middlewareManager.GinLoggingMiddleware())
func (m *MiddlewareManager) GinLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// 提取并格式化客户端IP
		clientIP := utils.GetClientIP(c)
		XRequestID := c.GetHeader("X-Request-ID")
		userAgent := c.GetHeader("User-Agent")

		// 存储到Gin上下文
		c.Set("client_ip", clientIP) // 这个是标准化后的可以用作业务使用的客户端IP

		// 存储到标准上下文
		// handler中使用Gin上下文，service/repo层使用标准上下文，
		// 所以这里需要把client_ip同时写入c.Request.Context()
		ctx := context.WithValue(c.Request.Context(), utils.ContextKeyClientIP, clientIP)
		c.Request = c.Request.WithContext(ctx)

		// 处理请求
		c.Next()

		// 跳过不需要记录的路径(健康检查等)
		if m.shouldSkipRequestLog(c.Request.URL.Path) {
			return
		}

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		// 获取用户信息（如果已认证）
		userID := uint64(0)
		username := ""
		if uid, exists := c.Get("user_id"); exists {
			if v, ok := uid.(uint64); ok {
				userID = v
			}
		}
		if uname, exists := c.Get("username"); exists {
			if v, ok := uname.(string); ok {
				username = v
			}
		}

		// 记录访问日志
		if m.securityConfig.Logging.EnableRequestLog {
			logger.LogBusinessOperation("http_request", uint(userID), username, clientIP, XRequestID, "success", "API Request", map[string]interface{}{
				"operation":     "http_request",
				"method":        c.Request.Method,
				"url":           c.Request.URL.String(),
				"status_code":   statusCode,
				"duration":      duration.Milliseconds(),
				"client_ip":     clientIP,
				"username":      username,
				"user_agent":    userAgent,
				"X-Request-ID":  XRequestID,
				"referer":       c.Request.Referer(),
				"request_size":  c.Request.ContentLength,
				"response_size": int64(c.Writer.Size()),
				"timestamp":     logger.NowFormatted(),
			})
		}

		// 慢请求告警
		if threshold := m.securityConfig.Logging.SlowRequestThreshold; threshold > 0 && duration > threshold {
			logger.WithFields(logrus.Fields{
				"operation": "slow_request",
				"method":    c.Request.Method,
				"url":       c.Request.URL.String(),
				"duration":  duration.Milliseconds(),
				"threshold": threshold.Milliseconds(),
				"client_ip": clientIP,
			}).Warn("Slow request detected")
		}

		// 如果是错误状态码，记录错误日志
		if statusCode >= 400 {
			errorMsg := ""
			if errs := c.Errors; len(errs) > 0 {
				errorMsg = errs.String()
			} else {
				errorMsg = http.StatusText(statusCode)
			}

			logger.LogError(fmt.Errorf("HTTP %d: %s", statusCode, errorMsg), XRequestID, uint(userID), clientIP, "http_request", c.Request.Method, map[string]interface{}{
				"operation":    "http_request",
				"method":       c.Request.Method,
				"url":          c.Request.URL.String(),
				"status_code":  statusCode,
				"username":     username,
				"client_ip":    clientIP,
				"user_agent":   userAgent,
				"X-Request-ID": XRequestID,
				"timestamp":    logger.NowFormatted(),
			})
		}
	}
}

// shouldSkipRequestLog 检查路径是否跳过访问日志
func (m *MiddlewareManager) shouldSkipRequestLog(path string) bool {
	for _, skipPath := range m.securityConfig.Logging.SkipPaths {
		if path == skipPath {
			return true
		}
	}
	return false
}
