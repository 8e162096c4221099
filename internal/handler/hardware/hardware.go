/**
 * 处理器:硬件资产接口
 * @description: 硬件资产的列表、看板、卡片移动、详情、状态流转、删除、
 *               变更历史、CSV导出与编辑会话接口
 * @func: Handler 及各Gin处理方法
 */
package hardware

import (
	"net/http"
	"net/url"

	"adminboard/internal/handler/respond"
	"adminboard/internal/model"
	hwmodel "adminboard/internal/model/hardware"
	"adminboard/internal/pkg/utils"
	"adminboard/internal/service/hardware"

	"github.com/gin-gonic/gin"
)

// Handler 硬件资产接口处理器
type Handler struct {
	svc *hardware.Service
}

// NewHandler 创建硬件资产处理器实例
func NewHandler(svc *hardware.Service) *Handler {
	return &Handler{svc: svc}
}

// List 列表查询接口
// GET /api/v1/hardware
func (h *Handler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respond.BusinessError(c, "failed to list hardware assets", err)
		return
	}
	respond.Success(c, "hardware assets retrieved", resp)
}

// Board 看板视图接口,列为固定状态枚举
// GET /api/v1/hardware/board
func (h *Handler) Board(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	view, err := h.svc.Board(c.Request.Context(), &req)
	if err != nil {
		respond.BusinessError(c, "failed to build board view", err)
		return
	}
	respond.Success(c, "board retrieved", view)
}

// moveCardRequest 看板卡片移动请求体,dx/dy为指针位移
type moveCardRequest struct {
	TargetStatus string  `json:"target_status" binding:"required"`
	DX           float64 `json:"dx"`
	DY           float64 `json:"dy"`
}

// MoveCard 看板卡片移动接口
// 位移低于阈值按点击处理(open_editor=true,不移动);
// 拖回原列为no-op;跨列移动产生一条变更日志
// POST /api/v1/hardware/:id/move
func (h *Handler) MoveCard(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	var req moveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	result, err := h.svc.MoveCard(c.Request.Context(), id, req.TargetStatus, req.DX, req.DY, utils.GetActorFromGinContext(c))
	if err != nil {
		respond.BusinessError(c, "failed to move card", err)
		return
	}
	respond.Success(c, "card move processed", result)
}

// Detail 详情查询接口
// GET /api/v1/hardware/:id
func (h *Handler) Detail(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	asset, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		respond.BusinessError(c, "failed to get hardware asset", err)
		return
	}
	respond.Success(c, "hardware asset retrieved", asset)
}

// statusRequest 状态流转请求体
type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus 对话框内状态流转接口,同状态为no-op
// PUT /api/v1/hardware/:id/status
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
// DELETE /api/v1/hardware/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, utils.GetActorFromGinContext(c)); err != nil {
		respond.BusinessError(c, "failed to delete hardware asset", err)
		return
	}
	respond.Success(c, "hardware asset deleted", nil)
}

// History 变更历史查询接口
// GET /api/v1/hardware/code/:code/history
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
// GET /api/v1/hardware/export
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
// POST /api/v1/hardware/editor
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
// PUT /api/v1/hardware/editor/:session
func (h *Handler) UpdateDraft(c *gin.Context) {
	var asset hwmodel.HardwareAsset
	if err := c.ShouldBindJSON(&asset); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.svc.UpdateDraft(c.Param("session"), &asset); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "draft updated", nil)
}

// Save 保存编辑会话
// POST /api/v1/hardware/editor/:session/save
func (h *Handler) Save(c *gin.Context) {
	result, err := h.svc.Save(c.Request.Context(), c.Param("session"), utils.GetActorFromGinContext(c))
	if err != nil {
		respond.BusinessError(c, "failed to save hardware asset", err)
		return
	}
	respond.Success(c, "hardware asset saved", result)
}

// Discard 丢弃编辑会话
// DELETE /api/v1/hardware/editor/:session
func (h *Handler) Discard(c *gin.Context) {
	h.svc.Discard(c.Param("session"))
	respond.Success(c, "editor session discarded", nil)
}
