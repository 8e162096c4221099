/**
 * 服务层:费用管理编辑器
 * @description: 费用记录编辑会话。打开时分配编号(新建)或播种草稿(编辑)，
 *               所有修改只落在内存草稿，保存时经差异对账器统一下发
 * @func:
 * 	1.OpenEditor: 打开编辑会话
 * 	2.UpdateDraft / SetLineItems / Add|Update|RemoveComment / Add|Update|RemoveAttachment: 草稿修改
 * 	3.Save: 差异对账保存
 * 	4.Discard: 丢弃草稿
 */
package cost

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	costmodel "adminboard/internal/model/cost"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/service/draft"
)

// EditorSession 一次费用记录编辑会话
type EditorSession struct {
	ID          string
	editor      *draft.Editor[*costmodel.CostRecord]
	lineItems   *draft.BulkCollection[*costmodel.CostLineItem]
	comments    *draft.Collection[*costmodel.CostComment]
	attachments *draft.Collection[*costmodel.CostAttachment]
}

// EditorView 编辑会话的渲染视图
type EditorView struct {
	SessionID   string                      `json:"session_id"`
	AddMode     bool                        `json:"add_mode"`
	Code        string                      `json:"code"`
	Parent      *costmodel.CostRecord       `json:"parent"`
	LineItems   []*costmodel.CostLineItem   `json:"line_items"`
	Comments    []*costmodel.CostComment    `json:"comments"`
	Attachments []*costmodel.CostAttachment `json:"attachments"`
}

// validateRecord 保存前必填校验,失败时不发起任何网络调用
func validateRecord(record *costmodel.CostRecord) *model.ValidationError {
	if strings.TrimSpace(record.Title) == "" {
		return &model.ValidationError{Field: "title", Message: "비용명을 입력해주세요"}
	}
	if strings.TrimSpace(record.CostType) == "" {
		return &model.ValidationError{Field: "cost_type", Message: "비용 유형을 선택해주세요"}
	}
	if record.StartDate == nil {
		return &model.ValidationError{Field: "start_date", Message: "시작일을 입력해주세요"}
	}
	if record.CompletionDate == nil {
		return &model.ValidationError{Field: "completion_date", Message: "완료일을 입력해주세요"}
	}
	return nil
}

// OpenEditor 打开编辑会话
// recordID为0时进入新建模式:预分配业务编号并播种空白草稿;
// 否则进入编辑模式:以远端记录与子集合播种草稿
func (s *Service) OpenEditor(ctx context.Context, recordID uint64) (*EditorView, error) {
	var session draft.Session[*costmodel.CostRecord]
	view := &EditorView{}

	if recordID == 0 {
		codes, err := s.repo.ListCodesByPrefix(ctx, costmodel.CodePrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing codes: %w", err)
		}
		code, err := draft.AllocateCode(ctx, costmodel.CodePrefix, time.Now(), codes, s.repo.ExistsByCode, s.maxProbes)
		if err != nil {
			return nil, err
		}
		parent := &costmodel.CostRecord{
			Code:             code,
			Status:           changelogmodel.StatusWaiting,
			RegistrationDate: time.Now(),
		}
		session = draft.Session[*costmodel.CostRecord]{
			Code:           code,
			Parent:         parent,
			OriginalStatus: parent.Status,
		}
		view.AddMode = true
	} else {
		record, err := s.repo.GetRecordByID(ctx, recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cost record: %w", err)
		}
		if record == nil {
			return nil, errors.New("cost record not found")
		}
		session = draft.Session[*costmodel.CostRecord]{
			ParentID:       record.ID,
			Code:           record.Code,
			Parent:         record,
			OriginalStatus: record.Status,
		}

		if view.LineItems, err = s.repo.ListLineItems(ctx, recordID); err != nil {
			return nil, err
		}
		if view.Comments, err = s.repo.ListComments(ctx, recordID); err != nil {
			return nil, err
		}
		if view.Attachments, err = s.repo.ListAttachments(ctx, recordID); err != nil {
			return nil, err
		}
	}

	lineItems := draft.NewBulkCollection[*costmodel.CostLineItem]("line_items", s.repo.ReplaceLineItems)
	lineItems.Seed(view.LineItems)
	comments := draft.NewCollection[*costmodel.CostComment]("comments", draft.ChildOps[*costmodel.CostComment]{
		Create: func(ctx context.Context, parentID uint64, item *costmodel.CostComment) error {
			_, err := s.repo.CreateComment(ctx, parentID, item)
			return err
		},
		Update: s.repo.UpdateComment,
		Delete: s.repo.DeleteComment,
	})
	attachments := draft.NewCollection[*costmodel.CostAttachment]("attachments", draft.ChildOps[*costmodel.CostAttachment]{
		Create: func(ctx context.Context, parentID uint64, item *costmodel.CostAttachment) error {
			_, err := s.repo.CreateAttachment(ctx, parentID, item)
			return err
		},
		Update: s.repo.UpdateAttachment,
		Delete: s.repo.DeleteAttachment,
	})

	// 挂载顺序即保存顺序:明细先于备注先于附件
	editor := draft.NewEditor(session, draft.ParentOps[*costmodel.CostRecord]{
		Create: s.repo.CreateRecord,
		Update: s.repo.UpdateRecord,
	}).Validate(validateRecord).
		Attach(lineItems).
		Attach(comments).
		Attach(attachments)

	es := &EditorSession{
		ID:          draft.NewSessionID(),
		editor:      editor,
		lineItems:   lineItems,
		comments:    comments,
		attachments: attachments,
	}
	s.editors.Put(es.ID, es)

	view.SessionID = es.ID
	view.Code = session.Code
	view.Parent = session.Parent
	return view, nil
}

// getSession 按ID取活动编辑会话
func (s *Service) getSession(sessionID string) (*EditorSession, error) {
	es, ok := s.editors.Get(sessionID)
	if !ok {
		return nil, errors.New("editor session not found or expired")
	}
	return es, nil
}

// UpdateDraft 覆盖父字段草稿,业务编号不可被改写
func (s *Service) UpdateDraft(sessionID string, record *costmodel.CostRecord) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	record.Code = es.editor.Session().Code
	es.editor.SetParent(record)
	return nil
}

// SetLineItems 覆盖费用明细工作副本,保存时整批替换
func (s *Service) SetLineItems(sessionID string, items []*costmodel.CostLineItem) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.lineItems.SetItems(items)
	return nil
}

// AddComment 草稿内新增备注,返回本地引用
func (s *Service) AddComment(sessionID string, comment *costmodel.CostComment) (draft.ItemRef, error) {
	es, err := s.getSession(sessionID)
	if err != nil {
		return draft.ItemRef{}, err
	}
	return es.comments.Set.Add(comment), nil
}

// UpdateComment 草稿内更新备注
func (s *Service) UpdateComment(sessionID string, ref draft.ItemRef, comment *costmodel.CostComment) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.comments.Set.Update(ref, comment)
	return nil
}

// RemoveComment 草稿内移除备注
func (s *Service) RemoveComment(sessionID string, ref draft.ItemRef) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.comments.Set.Remove(ref)
	return nil
}

// AddAttachment 草稿内新增附件,返回本地引用
func (s *Service) AddAttachment(sessionID string, attachment *costmodel.CostAttachment) (draft.ItemRef, error) {
	es, err := s.getSession(sessionID)
	if err != nil {
		return draft.ItemRef{}, err
	}
	return es.attachments.Set.Add(attachment), nil
}

// UpdateAttachment 草稿内更新附件
func (s *Service) UpdateAttachment(sessionID string, ref draft.ItemRef, attachment *costmodel.CostAttachment) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.attachments.Set.Update(ref, attachment)
	return nil
}

// RemoveAttachment 草稿内移除附件
func (s *Service) RemoveAttachment(sessionID string, ref draft.ItemRef) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.attachments.Set.Remove(ref)
	return nil
}

// Save 保存编辑会话
// 父记录保存失败时草稿保留,会话继续有效;保存成功后会话关闭,
// 子集合的部分失败以警告形式返回
func (s *Service) Save(ctx context.Context, sessionID string, actor system.Actor) (*model.SaveResultResponse, error) {
	es, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := es.editor.Save(ctx)
	if err != nil {
		return nil, err
	}

	session := es.editor.Session()
	if result.Created {
		s.logs.AppendCreation(ctx, ModuleName, result.Code, actor)
	} else if session.OriginalStatus != session.Parent.Status {
		s.logs.AppendStatusChange(ctx, ModuleName, result.Code, session.OriginalStatus, session.Parent.Status, actor)
	}

	s.editors.Delete(sessionID)

	logger.LogBusinessOperation("cost_save", uint(actor.UserID), actor.Name, "", "", "success", "费用记录保存成功", map[string]interface{}{
		"record_id":      result.ParentID,
		"code":           result.Code,
		"created":        result.Created,
		"child_failures": len(result.ChildFailures),
	})

	return &model.SaveResultResponse{
		ParentID:      result.ParentID,
		Code:          result.Code,
		Created:       result.Created,
		ChildWarnings: result.Warnings(),
	}, nil
}

// Discard 丢弃编辑会话,草稿整体丢弃、不触网
func (s *Service) Discard(sessionID string) {
	s.editors.Delete(sessionID)
}
