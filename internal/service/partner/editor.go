/**
 * 服务层:协力公司保安监查编辑器
 * @description: 监查记录编辑会话。检查项评估为整批替换子集合;
 *               OPL事项按ID逐条维护,新增时在会话内分配 PARENTCODE-NN 子编号
 * @func:
 * 	1.OpenEditor: 打开编辑会话
 * 	2.UpdateDraft / SetEvaluations / Add|Update|RemoveOPLItem: 草稿修改
 * 	3.Save: 差异对账保存
 * 	4.Discard: 丢弃草稿
 */
package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	partnermodel "adminboard/internal/model/partner"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/service/draft"
)

// EditorSession 一次监查记录编辑会话
type EditorSession struct {
	ID          string
	editor      *draft.Editor[*partnermodel.PartnerAudit]
	evaluations *draft.BulkCollection[*partnermodel.ChecklistEvaluation]
	oplItems    *draft.Collection[*partnermodel.OPLItem]
	oplCodes    []string
}

// EditorView 编辑会话的渲染视图
type EditorView struct {
	SessionID   string                              `json:"session_id"`
	AddMode     bool                                `json:"add_mode"`
	Code        string                              `json:"code"`
	Parent      *partnermodel.PartnerAudit          `json:"parent"`
	Evaluations []*partnermodel.ChecklistEvaluation `json:"evaluations"`
	OPLItems    []*partnermodel.OPLItem             `json:"opl_items"`
}

// validateAudit 保存前必填校验
func validateAudit(record *partnermodel.PartnerAudit) *model.ValidationError {
	if strings.TrimSpace(record.PartnerCompany) == "" {
		return &model.ValidationError{Field: "partner_company", Message: "협력사를 입력해주세요"}
	}
	if record.AuditDate == nil {
		return &model.ValidationError{Field: "audit_date", Message: "감사일을 입력해주세요"}
	}
	return nil
}

// OpenEditor 打开编辑会话
func (s *Service) OpenEditor(ctx context.Context, recordID uint64) (*EditorView, error) {
	var session draft.Session[*partnermodel.PartnerAudit]
	var oplCodes []string
	view := &EditorView{}

	if recordID == 0 {
		codes, err := s.repo.ListCodesByPrefix(ctx, partnermodel.CodePrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing codes: %w", err)
		}
		code, err := draft.AllocateCode(ctx, partnermodel.CodePrefix, time.Now(), codes, s.repo.ExistsByCode, s.maxProbes)
		if err != nil {
			return nil, err
		}
		parent := &partnermodel.PartnerAudit{
			Code:             code,
			Status:           changelogmodel.StatusWaiting,
			RegistrationDate: time.Now(),
		}
		session = draft.Session[*partnermodel.PartnerAudit]{
			Code:           code,
			Parent:         parent,
			OriginalStatus: parent.Status,
		}
		view.AddMode = true
	} else {
		record, err := s.repo.GetRecordByID(ctx, recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get partner audit: %w", err)
		}
		if record == nil {
			return nil, errors.New("partner audit not found")
		}
		session = draft.Session[*partnermodel.PartnerAudit]{
			ParentID:       record.ID,
			Code:           record.Code,
			Parent:         record,
			OriginalStatus: record.Status,
		}

		if view.Evaluations, err = s.repo.ListEvaluations(ctx, recordID); err != nil {
			return nil, err
		}
		if view.OPLItems, err = s.repo.ListOPLItems(ctx, recordID); err != nil {
			return nil, err
		}
		if oplCodes, err = s.repo.ListOPLCodes(ctx, recordID); err != nil {
			return nil, err
		}
	}

	evaluations := draft.NewBulkCollection[*partnermodel.ChecklistEvaluation]("evaluations", s.repo.ReplaceEvaluations)
	evaluations.Seed(view.Evaluations)
	oplItems := draft.NewCollection[*partnermodel.OPLItem]("opl_items", draft.ChildOps[*partnermodel.OPLItem]{
		Create: func(ctx context.Context, parentID uint64, item *partnermodel.OPLItem) error {
			_, err := s.repo.CreateOPLItem(ctx, parentID, item)
			return err
		},
		Update: s.repo.UpdateOPLItem,
		Delete: s.repo.DeleteOPLItem,
	})

	editor := draft.NewEditor(session, draft.ParentOps[*partnermodel.PartnerAudit]{
		Create: s.repo.CreateRecord,
		Update: s.repo.UpdateRecord,
	}).Validate(validateAudit).
		Attach(evaluations).
		Attach(oplItems)

	es := &EditorSession{
		ID:          draft.NewSessionID(),
		editor:      editor,
		evaluations: evaluations,
		oplItems:    oplItems,
		oplCodes:    oplCodes,
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
func (s *Service) UpdateDraft(sessionID string, record *partnermodel.PartnerAudit) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	record.Code = es.editor.Session().Code
	es.editor.SetParent(record)
	return nil
}

// SetEvaluations 覆盖检查项评估工作副本,保存时整批替换
func (s *Service) SetEvaluations(sessionID string, evaluations []*partnermodel.ChecklistEvaluation) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.evaluations.SetItems(evaluations)
	return nil
}

// AddOPLItem 草稿内新增OPL事项,子编号在会话内立即分配
func (s *Service) AddOPLItem(sessionID string, item *partnermodel.OPLItem) (draft.ItemRef, error) {
	es, err := s.getSession(sessionID)
	if err != nil {
		return draft.ItemRef{}, err
	}
	item.Code = draft.AllocateChildCode(es.editor.Session().Code, es.oplCodes)
	es.oplCodes = append(es.oplCodes, item.Code)
	return es.oplItems.Set.Add(item), nil
}

// UpdateOPLItem 草稿内更新OPL事项,子编号不可被改写
func (s *Service) UpdateOPLItem(sessionID string, ref draft.ItemRef, item *partnermodel.OPLItem) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.oplItems.Set.Update(ref, item)
	return nil
}

// RemoveOPLItem 草稿内移除OPL事项,已分配的子编号不回收
func (s *Service) RemoveOPLItem(sessionID string, ref draft.ItemRef) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.oplItems.Set.Remove(ref)
	return nil
}

// Save 保存编辑会话
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

	logger.LogBusinessOperation("partner_audit_save", uint(actor.UserID), actor.Name, "", "", "success", "监查记录保存成功", map[string]interface{}{
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

// Discard 丢弃编辑会话
func (s *Service) Discard(sessionID string) {
	s.editors.Delete(sessionID)
}
