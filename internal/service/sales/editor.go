/**
 * 服务层:销售管理编辑器
 * @description: 销售记录编辑会话。无子集合,仅父记录草稿;
 *               打开时分配编号(新建)或播种草稿(编辑),保存时统一下发
 * @func:
 * 	1.OpenEditor: 打开编辑会话
 * 	2.UpdateDraft: 草稿修改
 * 	3.Save: 保存
 * 	4.Discard: 丢弃草稿
 */
package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	salesmodel "adminboard/internal/model/sales"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/service/draft"
)

// EditorSession 一次销售记录编辑会话
type EditorSession struct {
	ID     string
	editor *draft.Editor[*salesmodel.SalesRecord]
}

// EditorView 编辑会话的渲染视图
type EditorView struct {
	SessionID string                  `json:"session_id"`
	AddMode   bool                    `json:"add_mode"`
	Code      string                  `json:"code"`
	Parent    *salesmodel.SalesRecord `json:"parent"`
}

// validateRecord 保存前必填校验,失败时不发起任何网络调用
func validateRecord(record *salesmodel.SalesRecord) *model.ValidationError {
	if strings.TrimSpace(record.Client) == "" {
		return &model.ValidationError{Field: "client", Message: "고객사를 입력해주세요"}
	}
	if strings.TrimSpace(record.Item) == "" {
		return &model.ValidationError{Field: "item", Message: "판매항목을 입력해주세요"}
	}
	if record.SaleDate == nil {
		return &model.ValidationError{Field: "sale_date", Message: "판매일을 입력해주세요"}
	}
	return nil
}

// OpenEditor 打开编辑会话
// recordID为0时进入新建模式:预分配业务编号并播种空白草稿;
// 否则进入编辑模式:以远端记录播种草稿
func (s *Service) OpenEditor(ctx context.Context, recordID uint64) (*EditorView, error) {
	var session draft.Session[*salesmodel.SalesRecord]
	view := &EditorView{}

	if recordID == 0 {
		codes, err := s.repo.ListCodesByPrefix(ctx, salesmodel.CodePrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing codes: %w", err)
		}
		code, err := draft.AllocateCode(ctx, salesmodel.CodePrefix, time.Now(), codes, s.repo.ExistsByCode, s.maxProbes)
		if err != nil {
			return nil, err
		}
		parent := &salesmodel.SalesRecord{
			Code:             code,
			Status:           changelogmodel.StatusWaiting,
			RegistrationDate: time.Now(),
		}
		session = draft.Session[*salesmodel.SalesRecord]{
			Code:           code,
			Parent:         parent,
			OriginalStatus: parent.Status,
		}
		view.AddMode = true
	} else {
		record, err := s.repo.GetRecordByID(ctx, recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get sales record: %w", err)
		}
		if record == nil {
			return nil, errors.New("sales record not found")
		}
		session = draft.Session[*salesmodel.SalesRecord]{
			ParentID:       record.ID,
			Code:           record.Code,
			Parent:         record,
			OriginalStatus: record.Status,
		}
	}

	editor := draft.NewEditor(session, draft.ParentOps[*salesmodel.SalesRecord]{
		Create: s.repo.CreateRecord,
		Update: s.repo.UpdateRecord,
	}).Validate(validateRecord)

	es := &EditorSession{
		ID:     draft.NewSessionID(),
		editor: editor,
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
func (s *Service) UpdateDraft(sessionID string, record *salesmodel.SalesRecord) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	record.Code = es.editor.Session().Code
	es.editor.SetParent(record)
	return nil
}

// Save 保存编辑会话
// 父记录保存失败时草稿保留,会话继续有效;保存成功后会话关闭
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

	logger.LogBusinessOperation("sales_save", uint(actor.UserID), actor.Name, "", "", "success", "销售记录保存成功", map[string]interface{}{
		"record_id": result.ParentID,
		"code":      result.Code,
		"created":   result.Created,
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
