/**
 * 路由:硬件资产管理路由
 * @description: 资产的列表、看板视图、卡片拖拽、详情、状态流转、CSV导出与编辑器会话路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupHardwareRoutes 设置硬件资产管理路由
func (r *Router) setupHardwareRoutes(v1 *gin.RouterGroup) {
	hardware := v1.Group("/hardware")
	hardware.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		hardware.GET("", r.hardwareHandler.List)
		// 看板视图(固定状态列顺序)
		hardware.GET("/board", r.hardwareHandler.Board)
		hardware.GET("/export", r.hardwareHandler.Export)
		hardware.GET("/:id", r.hardwareHandler.Detail)
		// 卡片拖拽(位移低于阈值按点击处理,返回open_editor)
		hardware.POST("/:id/move", r.hardwareHandler.MoveCard)
		hardware.PUT("/:id/status", r.hardwareHandler.ChangeStatus)
		hardware.DELETE("/:id", r.hardwareHandler.Delete)
		hardware.GET("/code/:code/history", r.hardwareHandler.History)

		// 编辑器会话(无子集合)
		editor := hardware.Group("/editor")
		{
			editor.POST("", r.hardwareHandler.OpenEditor)
			editor.PUT("/:session", r.hardwareHandler.UpdateDraft)
			editor.POST("/:session/save", r.hardwareHandler.Save)
			editor.DELETE("/:session", r.hardwareHandler.Discard)
		}
	}
}
