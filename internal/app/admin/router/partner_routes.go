/**
 * 路由:协力公司保安监查路由
 * @description: 监查记录的列表、详情、状态流转、变更历史与编辑器会话路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupPartnerRoutes 设置协力公司保安监查路由
func (r *Router) setupPartnerRoutes(v1 *gin.RouterGroup) {
	audits := v1.Group("/partner-audits")
	audits.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		audits.GET("", r.partnerHandler.List)
		audits.GET("/:id", r.partnerHandler.Detail)
		audits.PUT("/:id/status", r.partnerHandler.ChangeStatus)
		audits.DELETE("/:id", r.partnerHandler.Delete)
		audits.GET("/code/:code/history", r.partnerHandler.History)

		// 编辑器会话
		editor := audits.Group("/editor")
		{
			editor.POST("", r.partnerHandler.OpenEditor)
			editor.PUT("/:session", r.partnerHandler.UpdateDraft)
			editor.PUT("/:session/evaluations", r.partnerHandler.SetEvaluations)
			editor.POST("/:session/opl-items", r.partnerHandler.AddOPLItem)
			editor.PUT("/:session/opl-items", r.partnerHandler.UpdateOPLItem)
			editor.DELETE("/:session/opl-items", r.partnerHandler.RemoveOPLItem)
			editor.POST("/:session/save", r.partnerHandler.Save)
			editor.DELETE("/:session", r.partnerHandler.Discard)
		}
	}
}
