/**
 * 处理器:费用管理编辑器接口
 * @description: 编辑会话的打开、草稿修改、保存与丢弃接口。
 *               子条目引用以{remote_id,local_id}两段式传输
 * @func: 编辑器相关Gin处理方法
 */
package cost

import (
	"net/http"
	"strconv"

	"adminboard/internal/handler/respond"
	costmodel "adminboard/internal/model/cost"
	"adminboard/internal/pkg/utils"
	"adminboard/internal/service/draft"

	"github.com/gin-gonic/gin"
)

// openEditorRequest 打开编辑会话请求体,record_id为0或缺省时进入新建模式
type openEditorRequest struct {
	RecordID uint64 `json:"record_id"`
}

// refView 子条目引用的传输形态
type refView struct {
	RemoteID uint64 `json:"remote_id,omitempty"`
	LocalID  string `json:"local_id,omitempty"`
}

func toRefView(ref draft.ItemRef) refView {
	return refView{RemoteID: ref.Remote(), LocalID: string(ref.Local())}
}

// queryRef 从查询参数还原子条目引用
func queryRef(c *gin.Context) draft.ItemRef {
	remoteID, _ := strconv.ParseUint(c.Query("remote_id"), 10, 64)
	return draft.ParseRef(remoteID, c.Query("local_id"))
}

// OpenEditor 打开编辑会话
// POST /api/v1/costs/editor
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
// PUT /api/v1/costs/editor/:session
func (h *Handler) UpdateDraft(c *gin.Context) {
	var record costmodel.CostRecord
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

// lineItemsRequest 明细整批覆盖请求体
type lineItemsRequest struct {
	Items []*costmodel.CostLineItem `json:"items"`
}

// SetLineItems 覆盖费用明细工作副本
// PUT /api/v1/costs/editor/:session/line-items
func (h *Handler) SetLineItems(c *gin.Context) {
	var req lineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.svc.SetLineItems(c.Param("session"), req.Items); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "line items updated", nil)
}

// AddComment 草稿内新增备注
// POST /api/v1/costs/editor/:session/comments
func (h *Handler) AddComment(c *gin.Context) {
	var comment costmodel.CostComment
	if err := c.ShouldBindJSON(&comment); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref, err := h.svc.AddComment(c.Param("session"), &comment)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "comment added", toRefView(ref))
}

// commentUpdateRequest 备注更新请求体,引用与新值一起传输
type commentUpdateRequest struct {
	RemoteID uint64                 `json:"remote_id"`
	LocalID  string                 `json:"local_id"`
	Comment  *costmodel.CostComment `json:"comment" binding:"required"`
}

// UpdateComment 草稿内更新备注
// PUT /api/v1/costs/editor/:session/comments
func (h *Handler) UpdateComment(c *gin.Context) {
	var req commentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref := draft.ParseRef(req.RemoteID, req.LocalID)
	if err := h.svc.UpdateComment(c.Param("session"), ref, req.Comment); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "comment updated", nil)
}

// RemoveComment 草稿内移除备注,引用经查询参数传输
// DELETE /api/v1/costs/editor/:session/comments
func (h *Handler) RemoveComment(c *gin.Context) {
	if err := h.svc.RemoveComment(c.Param("session"), queryRef(c)); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "comment removed", nil)
}

// AddAttachment 草稿内新增附件
// POST /api/v1/costs/editor/:session/attachments
func (h *Handler) AddAttachment(c *gin.Context) {
	var attachment costmodel.CostAttachment
	if err := c.ShouldBindJSON(&attachment); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref, err := h.svc.AddAttachment(c.Param("session"), &attachment)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "attachment added", toRefView(ref))
}

// attachmentUpdateRequest 附件更新请求体
type attachmentUpdateRequest struct {
	RemoteID   uint64                    `json:"remote_id"`
	LocalID    string                    `json:"local_id"`
	Attachment *costmodel.CostAttachment `json:"attachment" binding:"required"`
}

// UpdateAttachment 草稿内更新附件
// PUT /api/v1/costs/editor/:session/attachments
func (h *Handler) UpdateAttachment(c *gin.Context) {
	var req attachmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref := draft.ParseRef(req.RemoteID, req.LocalID)
	if err := h.svc.UpdateAttachment(c.Param("session"), ref, req.Attachment); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "attachment updated", nil)
}

// RemoveAttachment 草稿内移除附件,引用经查询参数传输
// DELETE /api/v1/costs/editor/:session/attachments
func (h *Handler) RemoveAttachment(c *gin.Context) {
	if err := h.svc.RemoveAttachment(c.Param("session"), queryRef(c)); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "attachment removed", nil)
}

// Save 保存编辑会话
// 校验失败返回400字段级错误;父记录保存失败时会话保留;
// 保存成功后子集合的部分失败以警告形式返回
// POST /api/v1/costs/editor/:session/save
func (h *Handler) Save(c *gin.Context) {
	result, err := h.svc.Save(c.Request.Context(), c.Param("session"), utils.GetActorFromGinContext(c))
	if err != nil {
		respond.BusinessError(c, "failed to save cost record", err)
		return
	}
	respond.Success(c, "cost record saved", result)
}

// Discard 丢弃编辑会话
// DELETE /api/v1/costs/editor/:session
func (h *Handler) Discard(c *gin.Context) {
	h.svc.Discard(c.Param("session"))
	respond.Success(c, "editor session discarded", nil)
}
