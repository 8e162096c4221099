/**
 * 服务层:硬件资产编辑器
 * @description: 硬件资产编辑会话。无子集合,仅父记录草稿;
 *               打开时分配编号(新建)或播种草稿(编辑),保存时统一下发
 * @func:
 * 	1.OpenEditor: 打开编辑会话
 * 	2.UpdateDraft: 草稿修改
 * 	3.Save: 保存
 * 	4.Discard: 丢弃草稿
 */
package hardware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	hwmodel "adminboard/internal/model/hardware"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/service/draft"
)

// EditorSession 一次硬件资产编辑会话
type EditorSession struct {
	ID     string
	editor *draft.Editor[*hwmodel.HardwareAsset]
}

// EditorView 编辑会话的渲染视图
type EditorView struct {
	SessionID string                 `json:"session_id"`
	AddMode   bool                   `json:"add_mode"`
	Code      string                 `json:"code"`
	Parent    *hwmodel.HardwareAsset `json:"parent"`
}

// validateAsset 保存前必填校验,失败时不发起任何网络调用
func validateAsset(asset *hwmodel.HardwareAsset) *model.ValidationError {
	if strings.TrimSpace(asset.Name) == "" {
		return &model.ValidationError{Field: "name", Message: "자산명을 입력해주세요"}
	}
	return nil
}

// OpenEditor 打开编辑会话
// recordID为0时进入新建模式:预分配业务编号并播种空白草稿;
// 否则进入编辑模式:以远端记录播种草稿
func (s *Service) OpenEditor(ctx context.Context, recordID uint64) (*EditorView, error) {
	var session draft.Session[*hwmodel.HardwareAsset]
	view := &EditorView{}

	if recordID == 0 {
		codes, err := s.repo.ListCodesByPrefix(ctx, hwmodel.CodePrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing codes: %w", err)
		}
		code, err := draft.AllocateCode(ctx, hwmodel.CodePrefix, time.Now(), codes, s.repo.ExistsByCode, s.maxProbes)
		if err != nil {
			return nil, err
		}
		parent := &hwmodel.HardwareAsset{
			Code:             code,
			Status:           changelogmodel.StatusWaiting,
			RegistrationDate: time.Now(),
		}
		session = draft.Session[*hwmodel.HardwareAsset]{
			Code:           code,
			Parent:         parent,
			OriginalStatus: parent.Status,
		}
		view.AddMode = true
	} else {
		asset, err := s.repo.GetRecordByID(ctx, recordID)
		if err != nil {
			return nil, fmt.Errorf("failed to get hardware asset: %w", err)
		}
		if asset == nil {
			return nil, errors.New("hardware asset not found")
		}
		session = draft.Session[*hwmodel.HardwareAsset]{
			ParentID:       asset.ID,
			Code:           asset.Code,
			Parent:         asset,
			OriginalStatus: asset.Status,
		}
	}

	editor := draft.NewEditor(session, draft.ParentOps[*hwmodel.HardwareAsset]{
		Create: s.repo.CreateRecord,
		Update: s.repo.UpdateRecord,
	}).Validate(validateAsset)

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
func (s *Service) UpdateDraft(sessionID string, asset *hwmodel.HardwareAsset) error {
	es, err := s.getSession(sessionID)
	if err != nil {
		return err
	}
	asset.Code = es.editor.Session().Code
	es.editor.SetParent(asset)
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

	logger.LogBusinessOperation("hardware_save", uint(actor.UserID), actor.Name, "", "", "success", "硬件资产保存成功", map[string]interface{}{
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
