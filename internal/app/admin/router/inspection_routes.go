/**
 * 路由:客户保安点检路由
 * @description: 点检记录的列表、详情、状态流转、变更历史与编辑器会话路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupInspectionRoutes 设置客户安全点检路由
func (r *Router) setupInspectionRoutes(v1 *gin.RouterGroup) {
	inspections := v1.Group("/inspections")
	inspections.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		inspections.GET("", r.inspectionHandler.List)
		inspections.GET("/:id", r.inspectionHandler.Detail)
		inspections.PUT("/:id/status", r.inspectionHandler.ChangeStatus)
		inspections.DELETE("/:id", r.inspectionHandler.Delete)
		inspections.GET("/code/:code/history", r.inspectionHandler.History)

		// 编辑器会话(评价项目整批替换，OPL改善课题新增时预分配子编号)
		editor := inspections.Group("/editor")
		{
			editor.POST("", r.inspectionHandler.OpenEditor)
			editor.PUT("/:session", r.inspectionHandler.UpdateDraft)
			editor.PUT("/:session/evaluations", r.inspectionHandler.SetEvaluations)
			editor.POST("/:session/opl-items", r.inspectionHandler.AddOPLItem)
			editor.PUT("/:session/opl-items", r.inspectionHandler.UpdateOPLItem)
			editor.DELETE("/:session/opl-items", r.inspectionHandler.RemoveOPLItem)
			editor.POST("/:session/save", r.inspectionHandler.Save)
			editor.DELETE("/:session", r.inspectionHandler.Discard)
		}
	}
}
