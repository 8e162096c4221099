/**
 * 路由:销售管理路由
 * @description: 销售记录的列表、月度汇总报表、详情、状态流转、CSV导出与编辑器会话路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupSalesRoutes 设置销售管理路由
func (r *Router) setupSalesRoutes(v1 *gin.RouterGroup) {
	sales := v1.Group("/sales")
	sales.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		sales.GET("", r.salesHandler.List)
		// 月度汇总报表(?year=2026,缺省为当前年度)
		sales.GET("/report", r.salesHandler.MonthlyReport)
		sales.GET("/export", r.salesHandler.Export)
		sales.GET("/:id", r.salesHandler.Detail)
		sales.PUT("/:id/status", r.salesHandler.ChangeStatus)
		sales.DELETE("/:id", r.salesHandler.Delete)
		sales.GET("/code/:code/history", r.salesHandler.History)

		// 编辑器会话(无子集合)
		editor := sales.Group("/editor")
		{
			editor.POST("", r.salesHandler.OpenEditor)
			editor.PUT("/:session", r.salesHandler.UpdateDraft)
			editor.POST("/:session/save", r.salesHandler.Save)
			editor.DELETE("/:session", r.salesHandler.Discard)
		}
	}
}
