/**
 * 处理器:教育管理接口
 * @description: 教育记录的列表、详情、状态流转、删除、变更历史
 *               与编辑会话(受讲者逐条编辑)接口
 * @func: Handler 及各Gin处理方法
 */
package education

import (
	"net/http"
	"strconv"

	"adminboard/internal/handler/respond"
	"adminboard/internal/model"
	edumodel "adminboard/internal/model/education"
	"adminboard/internal/pkg/utils"
	"adminboard/internal/service/draft"
	"adminboard/internal/service/education"

	"github.com/gin-gonic/gin"
)

// Handler 教育管理接口处理器
type Handler struct {
	svc *education.Service
}

// NewHandler 创建教育管理处理器实例
func NewHandler(svc *education.Service) *Handler {
	return &Handler{svc: svc}
}

// List 列表查询接口
// GET /api/v1/educations
func (h *Handler) List(c *gin.Context) {
	var req model.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	resp, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respond.BusinessError(c, "failed to list education records", err)
		return
	}
	respond.Success(c, "education records retrieved", resp)
}

// Detail 详情查询接口,含受讲者名单与修了率
// GET /api/v1/educations/:id
func (h *Handler) Detail(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	view, err := h.svc.GetDetail(c.Request.Context(), id)
	if err != nil {
		respond.BusinessError(c, "failed to get education record", err)
		return
	}
	respond.Success(c, "education record retrieved", view)
}

// statusRequest 状态流转请求体
type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ChangeStatus 状态流转接口,同状态为no-op
// PUT /api/v1/educations/:id/status
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
// DELETE /api/v1/educations/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := respond.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, utils.GetActorFromGinContext(c)); err != nil {
		respond.BusinessError(c, "failed to delete education record", err)
		return
	}
	respond.Success(c, "education record deleted", nil)
}

// History 变更历史查询接口
// GET /api/v1/educations/code/:code/history
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
// POST /api/v1/educations/editor
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
// PUT /api/v1/educations/editor/:session
func (h *Handler) UpdateDraft(c *gin.Context) {
	var record edumodel.EducationRecord
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

// AddAttendee 草稿内新增受讲者
// POST /api/v1/educations/editor/:session/attendees
func (h *Handler) AddAttendee(c *gin.Context) {
	var attendee edumodel.EducationAttendee
	if err := c.ShouldBindJSON(&attendee); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref, err := h.svc.AddAttendee(c.Param("session"), &attendee)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "attendee added", gin.H{
		"remote_id": ref.Remote(),
		"local_id":  string(ref.Local()),
	})
}

// attendeeUpdateRequest 受讲者更新请求体,引用与新值一起传输
type attendeeUpdateRequest struct {
	RemoteID uint64                      `json:"remote_id"`
	LocalID  string                      `json:"local_id"`
	Attendee *edumodel.EducationAttendee `json:"attendee" binding:"required"`
}

// UpdateAttendee 草稿内更新受讲者
// PUT /api/v1/educations/editor/:session/attendees
func (h *Handler) UpdateAttendee(c *gin.Context) {
	var req attendeeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ref := draft.ParseRef(req.RemoteID, req.LocalID)
	if err := h.svc.UpdateAttendee(c.Param("session"), ref, req.Attendee); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "attendee updated", nil)
}

// RemoveAttendee 草稿内移除受讲者,引用经查询参数传输
// DELETE /api/v1/educations/editor/:session/attendees
func (h *Handler) RemoveAttendee(c *gin.Context) {
	remoteID, _ := strconv.ParseUint(c.Query("remote_id"), 10, 64)
	ref := draft.ParseRef(remoteID, c.Query("local_id"))
	if err := h.svc.RemoveAttendee(c.Param("session"), ref); err != nil {
		respond.Error(c, http.StatusNotFound, "editor session not found", err)
		return
	}
	respond.Success(c, "attendee removed", nil)
}

// Save 保存编辑会话
// POST /api/v1/educations/editor/:session/save
func (h *Handler) Save(c *gin.Context) {
	result, err := h.svc.Save(c.Request.Context(), c.Param("session"), utils.GetActorFromGinContext(c))
	if err != nil {
		respond.BusinessError(c, "failed to save education record", err)
		return
	}
	respond.Success(c, "education record saved", result)
}

// Discard 丢弃编辑会话
// DELETE /api/v1/educations/editor/:session
func (h *Handler) Discard(c *gin.Context) {
	h.svc.Discard(c.Param("session"))
	respond.Success(c, "editor session discarded", nil)
}
