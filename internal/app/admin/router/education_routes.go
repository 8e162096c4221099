/**
 * 路由:教育管理路由
 * @description: 教育记录的列表、详情、状态流转、变更历史与编辑器会话路由
 * @func:
 */
package router

import (
	"github.com/gin-gonic/gin"
)

// setupEducationRoutes 设置教育管理路由
func (r *Router) setupEducationRoutes(v1 *gin.RouterGroup) {
	educations := v1.Group("/educations")
	educations.Use(r.middlewareManager.GinJWTAuthMiddleware())
	{
		educations.GET("", r.educationHandler.List)
		educations.GET("/:id", r.educationHandler.Detail)
		educations.PUT("/:id/status", r.educationHandler.ChangeStatus)
		educations.DELETE("/:id", r.educationHandler.Delete)
		educations.GET("/code/:code/history", r.educationHandler.History)

		// 编辑器会话(参训人员为唯一子集合)
		editor := educations.Group("/editor")
		{
			editor.POST("", r.educationHandler.OpenEditor)
			editor.PUT("/:session", r.educationHandler.UpdateDraft)
			editor.POST("/:session/attendees", r.educationHandler.AddAttendee)
			editor.PUT("/:session/attendees", r.educationHandler.UpdateAttendee)
			editor.DELETE("/:session/attendees", r.educationHandler.RemoveAttendee)
			editor.POST("/:session/save", r.educationHandler.Save)
			editor.DELETE("/:session", r.educationHandler.Discard)
		}
	}
}
