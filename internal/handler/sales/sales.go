/**
 * 处理器:销售管理接口
 * @description: 销售记录的列表、详情、月度汇总、状态流转、删除、
 *               变更历史、CSV导出与编辑会话接口
 * @func: Handler 及各Gin处理方法
 */
package sales

import (
	"net/http"
	"net/url"
	"strconv"

	"adminboard/internal/handler/respond"
	"adminboard/internal/model"
	salesmodel "adminboard/internal/model/sales"
	"adminboard/internal/pkg/utils"
	"adminboard/internal/service/sales"

	"github.com/gin-gonic/gin"
)

// Handler 销售管理接口处理器
type Handler struct {
	svc *sales.Service
}

// NewHandler 创建销售管理处理器实例
func NewHandler(svc *sales.Service) *Handler {
	return &Handler{svc: svc}
}

// List 列表查询接口
// GET /api/v1/sales
func (h *Handler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respond.BusinessError(c, "failed to list sales records", err)
		return
	}
	respond.Success(c, "sales records retrieved", resp)
}

// Detail 详情查询接口
// GET /api/v1/sales/:id
func (h *Handler) Detail(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	record, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		respond.BusinessError(c, "failed to get sales record", err)
		return
	}
	respond.Success(c, "sales record retrieved", record)
}

// MonthlyReport 年度月报接口,缺省为当前年度
// GET /api/v1/sales/report?year=2026
func (h *Handler) MonthlyReport(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))

	report, err := h.svc.MonthlyReport(c.Request.Context(), year)
	if err != nil {
		respond.BusinessError(c, "failed to build monthly report", err)
		return
	}
	respond.Success(c, "monthly report retrieved", report)
}

// statusRequest 状态流转请求体
type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus 状态流转接口,同状态为no-op
// PUT /api/v1/sales/:id/status
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
// DELETE /api/v1/sales/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, utils.GetActorFromGinContext(c)); err != nil {
		respond.BusinessError(c, "failed to delete sales record", err)
		return
	}
	respond.Success(c, "sales record deleted", nil)
}

// History 变更历史查询接口
// GET /api/v1/sales/code/:code/history
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
// GET /api/v1/sales/export
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

// openEditorRequest 打开编辑会话请求体,record_id为0或缺省时进入新建模式
type openEditorRequest struct {
	RecordID uint64 `json:"record_id"`
}

// OpenEditor 打开编辑会话
// POST /api/v1/sales/editor
func (h *Handler) OpenEditor(c *gin.Context) {
	var req openEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	view, err := h.svc.OpenEditor(c.Request.Context(), req.RecordID)
	if err != nil {
		respond.BusinessError(c, "failed to open editor", err)
		return
	}
	respond.Success(c, "editor opened", view)
}

// UpdateDraft 覆盖父字段草稿
// PUT /api/v1/sales/editor/:session
func (h *Handler) UpdateDraft(c *gin.Context) {
	var record salesmodel.SalesRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.svc.UpdateDraft(c.Param("session"), &record); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "draft updated", nil)
}

// Save 保存编辑会话
// POST /api/v1/sales/editor/:session/save
func (h *Handler) Save(c *gin.Context) {
	result, err := h.svc.Save(c.Request.Context(), c.Param("session"), utils.GetActorFromGinContext(c))
	if err != nil {
		respond.BusinessError(c, "failed to save sales record", err)
		return
	}
	respond.Success(c, "sales record saved", result)
}

// Discard 丢弃编辑会话
// DELETE /api/v1/sales/editor/:session
func (h *Handler) Discard(c *gin.Context) {
	h.svc.Discard(c.Param("session"))
	respond.Success(c, "editor session discarded", nil)
}
