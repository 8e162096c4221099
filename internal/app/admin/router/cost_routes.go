/**
 * 路由:费用管理路由
 * @description: 费用记录的列表、详情、状态流转、变更历史、CSV导出与编辑器会话路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupCostRoutes 设置费用管理路由
func (r *Router) setupCostRoutes(v1 *gin.RouterGroup) {
	costs := v1.Group("/costs")
	costs.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		// 列表(筛选+分页)
		costs.GET("", r.costHandler.List)
		// CSV导出(与列表相同的筛选条件)
		costs.GET("/export", r.costHandler.Export)
		// 详情
		costs.GET("/:id", r.costHandler.Detail)
		// 状态流转(old==new时为no-op)
		costs.PUT("/:id/status", r.costHandler.ChangeStatus)
		// 删除
		costs.DELETE("/:id", r.costHandler.Delete)
		// 按业务编号查询变更历史
		costs.GET("/code/:code/history", r.costHandler.History)

		// 编辑器会话(草稿在服务端内存中，保存前不落库)
		editor := costs.Group("/editor")
		{
			editor.POST("", r.costHandler.OpenEditor)
			editor.PUT("/:session", r.costHandler.UpdateDraft)
			editor.PUT("/:session/line-items", r.costHandler.SetLineItems)
			editor.POST("/:session/comments", r.costHandler.AddComment)
			editor.PUT("/:session/comments", r.costHandler.UpdateComment)
			editor.DELETE("/:session/comments", r.costHandler.RemoveComment)
			editor.POST("/:session/attachments", r.costHandler.AddAttachment)
			editor.PUT("/:session/attachments", r.costHandler.UpdateAttachment)
			editor.DELETE("/:session/attachments", r.costHandler.RemoveAttachment)
			editor.POST("/:session/save", r.costHandler.Save)
			editor.DELETE("/:session", r.costHandler.Discard)
		}
	}
}
