/**
 * 处理器:协力社保安监查接口
 * @description: 监查记录的列表、详情、状态流转、删除、变更历史
 *               与编辑会话(检查表评价整批覆盖+OPL条目逐条编辑)接口
 * @func: Handler 及各Gin处理方法
 */
package partner

import (
	"net/http"
	"strconv"

	"adminboard/internal/handler/respond"
	"adminboard/internal/model"
	partnermodel "adminboard/internal/model/partner"
	"adminboard/internal/pkg/utils"
	"adminboard/internal/service/draft"
	"adminboard/internal/service/partner"

	"github.com/gin-gonic/gin"
)

// Handler 协力社保安监查接口处理器
type Handler struct {
	svc *partner.Service
}

// NewHandler 创建监查处理器实例
func NewHandler(svc *partner.Service) *Handler {
	return &Handler{svc: svc}
}

// List 列表查询接口
// GET /api/v1/partner-audits
func (h *Handler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respond.BusinessError(c, "failed to list partner audits", err)
		return
	}
	respond.Success(c, "partner audits retrieved", resp)
}

// Detail 详情查询接口
// GET /api/v1/partner-audits/:id
func (h *Handler) Detail(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	view, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		respond.BusinessError(c, "failed to get partner audit", err)
		return
	}
	respond.Success(c, "partner audit retrieved", view)
}

// statusRequest 状态流转请求体
type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus 状态流转接口,同状态为no-op
// PUT /api/v1/partner-audits/:id/status
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
// DELETE /api/v1/partner-audits/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, utils.GetActorFromGinContext(c)); err != nil {
		respond.BusinessError(c, "failed to delete partner audit", err)
		return
	}
	respond.Success(c, "partner audit deleted", nil)
}

// History 变更历史查询接口
// GET /api/v1/partner-audits/code/:code/history
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

// openEditorRequest 打开编辑会话请求体,record_id为0或缺省时进入新建模式
type openEditorRequest struct {
	RecordID uint64 `json:"record_id"`
}

// OpenEditor 打开编辑会话
// POST /api/v1/partner-audits/editor
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
// PUT /api/v1/partner-audits/editor/:session
func (h *Handler) UpdateDraft(c *gin.Context) {
	var record partnermodel.PartnerAudit
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

// evaluationsRequest 检查表评价整批覆盖请求体
type evaluationsRequest struct {
	Evaluations []*partnermodel.ChecklistEvaluation `json:"evaluations"`
}

// SetEvaluations 覆盖检查表评价工作副本
// PUT /api/v1/partner-audits/editor/:session/evaluations
func (h *Handler) SetEvaluations(c *gin.Context) {
	var req evaluationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.svc.SetEvaluations(c.Param("session"), req.Evaluations); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "evaluations updated", nil)
}

// AddOPLItem 草稿内新增OPL条目,子编号即时分配并随响应返回
// POST /api/v1/partner-audits/editor/:session/opl-items
func (h *Handler) AddOPLItem(c *gin.Context) {
	var item partnermodel.OPLItem
	if err := c.ShouldBindJSON(&item); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref, err := h.svc.AddOPLItem(c.Param("session"), &item)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "opl item added", gin.H{
		"remote_id": ref.Remote(),
		"local_id":  string(ref.Local()),
		"code":      item.Code,
	})
}

// oplUpdateRequest OPL条目更新请求体,引用与新值一起传输
type oplUpdateRequest struct {
	RemoteID uint64                `json:"remote_id"`
	LocalID  string                `json:"local_id"`
	Item     *partnermodel.OPLItem `json:"item" binding:"required"`
}

// UpdateOPLItem 草稿内更新OPL条目
// PUT /api/v1/partner-audits/editor/:session/opl-items
func (h *Handler) UpdateOPLItem(c *gin.Context) {
	var req oplUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref := draft.ParseRef(req.RemoteID, req.LocalID)
	if err := h.svc.UpdateOPLItem(c.Param("session"), ref, req.Item); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "opl item updated", nil)
}

// RemoveOPLItem 草稿内移除OPL条目,引用经查询参数传输
// DELETE /api/v1/partner-audits/editor/:session/opl-items
func (h *Handler) RemoveOPLItem(c *gin.Context) {
	remoteID, _ := strconv.ParseUint(c.Query("remote_id"), 10, 64)
	ref := draft.ParseRef(remoteID, c.Query("local_id"))
	if err := h.svc.RemoveOPLItem(c.Param("session"), ref); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "opl item removed", nil)
}

// Save 保存编辑会话
// POST /api/v1/partner-audits/editor/:session/save
func (h *Handler) Save(c *gin.Context) {
	result, err := h.svc.Save(c.Request.Context(), c.Param("session"), utils.GetActorFromGinContext(c))
	if err != nil {
		respond.BusinessError(c, "failed to save partner audit", err)
		return
	}
	respond.Success(c, "partner audit saved", result)
}

// Discard 丢弃编辑会话
// DELETE /api/v1/partner-audits/editor/:session
func (h *Handler) Discard(c *gin.Context) {
	h.svc.Discard(c.Param("session"))
	respond.Success(c, "editor session discarded", nil)
}
