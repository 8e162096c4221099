/**
 * 服务层:教育管理编辑器
 * @description: 教育记录编辑会话。受训人员按ID逐条维护
 * @func:
 * 	1.OpenEditor: 打开编辑会话
 * 	2.UpdateDraft / Add|Update|RemoveAttendee: 草稿修改
 * 	3.Save: 差异对账保存
 * 	4.Discard: 丢弃草稿
 */
package education

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	edumodel "adminboard/internal/model/education"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/service/draft"
)

// EditorSession 一次教育记录编辑会话
type EditorSession struct {
	ID        string
	editor    *draft.Editor[*edumodel.EducationRecord]
	attendees *draft.Collection[*edumodel.EducationAttendee]
}

// EditorView 编辑会话的渲染视图
type EditorView struct {
	SessionID string                        `json:"session_id"`
	AddMode   bool                          `json:"add_mode"`
	Code      string                        `json:"code"`
	Parent    *edumodel.EducationRecord     `json:"parent"`
	Attendees []*edumodel.EducationAttendee `json:"attendees"`
}

// validateEducation 保存前必填校验
func validateEducation(record *edumodel.EducationRecord) *model.ValidationError {
	if strings.TrimSpace(record.Course) == "" {
		return &model.ValidationError{Field: "course", Message: "교육명을 입력해주세요"}
	}
	if record.EducationDate == nil {
		return &model.ValidationError{Field: "education_date", Message: "교육일을 입력해주세요"}
	}
	return nil
}

// OpenEditor 打开编辑会话
func (s *Service) OpenEditor(ctx context.Context, recordID uint64) (*EditorView, error) {
	var session draft.Session[*edumodel.EducationRecord]
	view := &EditorView{}

	if recordID == 0 {
		codes, err := s.repo.ListCodesByPrefix(ctx, edumodel.CodePrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing codes: %w", err)
		}
		code, err := draft.AllocateCode(ctx, edumodel.CodePrefix, time.Now(), codes, s.repo.ExistsByCode, s.maxProbes)
		if err != nil {
			return nil, err
		}
		parent := &edumodel.EducationRecord{
			Code:             code,
			Status:           changelogmodel.StatusWaiting,
			RegistrationDate: time.Now(),
		}
		session = draft.Session[*edumodel.EducationRecord]{
			Code:           code,
			Parent:         parent,
			OriginalStatus: parent.Status,
		}
		view.AddMode = true
	} else {
		record, err := s.repo.GetRecordByID(ctx, recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get education record: %w", err)
		}
		if record == nil {
			return nil, errors.New("education record not found")
		}
		session = draft.Session[*edumodel.EducationRecord]{
			ParentID:       record.ID,
			Code:           record.Code,
			Parent:         record,
			OriginalStatus: record.Status,
		}

		if view.Attendees, err = s.repo.ListAttendees(ctx, recordID); err != nil {
			return nil, err
		}
	}

	attendees := draft.NewCollection[*edumodel.EducationAttendee]("attendees", draft.ChildOps[*edumodel.EducationAttendee]{
		Create: func(ctx context.Context, parentID uint64, attendee *edumodel.EducationAttendee) error {
			_, err := s.repo.CreateAttendee(ctx, parentID, attendee)
			return err
		},
		Update: s.repo.UpdateAttendee,
		Delete: s.repo.DeleteAttendee,
	})

	editor := draft.NewEditor(session, draft.ParentOps[*edumodel.EducationRecord]{
		Create: s.repo.CreateRecord,
		Update: s.repo.UpdateRecord,
	}).Validate(validateEducation).
		Attach(attendees)

	es := &EditorSession{
		ID:        draft.NewSessionID(),
		editor:    editor,
		attendees: attendees,
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
func (s *Service) UpdateDraft(sessionID string, record *edumodel.EducationRecord) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	record.Code = es.editor.Session().Code
	es.editor.SetParent(record)
	return nil
}

// AddAttendee 草稿内新增受训人员,返回本地引用
func (s *Service) AddAttendee(sessionID string, attendee *edumodel.EducationAttendee) (draft.ItemRef, error) {
	es, err := s.getSession(sessionID)
	if err != nil {
		return draft.ItemRef{}, err
	}
	return es.attendees.Set.Add(attendee), nil
}

// UpdateAttendee 草稿内更新受训人员
func (s *Service) UpdateAttendee(sessionID string, ref draft.ItemRef, attendee *edumodel.EducationAttendee) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.attendees.Set.Update(ref, attendee)
	return nil
}

// RemoveAttendee 草稿内移除受训人员
func (s *Service) RemoveAttendee(sessionID string, ref draft.ItemRef) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	es.attendees.Set.Remove(ref)
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

	logger.LogBusinessOperation("education_save", uint(actor.UserID), actor.Name, "", "", "success", "教育记录保存成功", map[string]interface{}{
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
