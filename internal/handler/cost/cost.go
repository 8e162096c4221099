/**
 * 处理器:费用管理接口
 * @description: 费用记录的列表、详情、状态流转、删除、变更历史与CSV导出接口
 * @func: Handler 及各Gin处理方法
 */
package cost

import (
	"net/http"
	"net/url"

	"adminboard/internal/handler/respond"
	"adminboard/internal/model"
	"adminboard/internal/pkg/utils"
	"adminboard/internal/service/cost"

	"github.com/gin-gonic/gin"
)

// Handler 费用管理接口处理器
type Handler struct {
	svc *cost.Service
}

// NewHandler 创建费用管理处理器实例
func NewHandler(svc *cost.Service) *Handler {
	return &Handler{svc: svc}
}

// List 列表查询接口
// GET /api/v1/costs
func (h *Handler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respond.BusinessError(c, "failed to list cost records", err)
		return
	}
	respond.Success(c, "cost records retrieved", resp)
}

// Detail 详情查询接口
// GET /api/v1/costs/:id
func (h *Handler) Detail(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	view, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		respond.BusinessError(c, "failed to get cost record", err)
		return
	}
	respond.Success(c, "cost record retrieved", view)
}

// statusRequest 状态流转请求体
type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus 状态流转接口,同状态为no-op
// PUT /api/v1/costs/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	moved, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status, utils.GetActorFromGinContext(c))
	if err != nil {
		respond.BusinessError(c, "failed to change status", err)
		return
	}
	respond.Success(c, "status processed", gin.H{"moved": moved, "status": req.Status})
}

// Delete 删除接口
// DELETE /api/v1/costs/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, utils.GetActorFromGinContext(c)); err != nil {
		respond.BusinessError(c, "failed to delete cost record", err)
		return
	}
	respond.Success(c, "cost record deleted", nil)
}

// History 变更历史查询接口
// GET /api/v1/costs/code/:code/history
func (h *Handler) History(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid code", nil)
		return
	}

	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}
	req.Normalize()

	entries, total, err := h.svc.History(c.Request.Context(), code, req.Page, req.PageSize)
	if err != nil {
		respond.BusinessError(c, "failed to get change history", err)
		return
	}
	respond.Success(c, "change history retrieved", gin.H{"total": total, "entries": entries})
}

// Export CSV导出接口,按当前筛选条件导出全量行
// GET /api/v1/costs/export
func (h *Handler) Export(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	filename, data, err := h.svc.ExportCSV(c.Request.Context(), &req)
	if err != nil {
		respond.BusinessError(c, "failed to export csv", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
