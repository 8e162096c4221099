/**
 * 变更日志服务
 * @description: 审计日志的追加与查询。追加是fire-and-forget：
 *               失败只记录到系统日志，从不上抛、从不阻断保存流程
 * @func: Service 及 Repository 接口
 */
package changelog

import (
	"context"
	"fmt"

	changelogmodel "adminboard/internal/model/changelog"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"
)

// Repository 变更日志数据访问接口
type Repository interface {
	Append(ctx context.Context, entry *changelogmodel.ChangeLogEntry) error
	ListByRecordCode(ctx context.Context, module, recordCode string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error)
	ListByModule(ctx context.Context, module string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error)
}

// Service 变更日志服务
type Service struct {
	repo Repository
}

// NewService 创建变更日志服务实例
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Append 追加一条变更日志
// 失败被吞掉并写入系统日志：审计下游的故障不允许影响用户可见结果
func (s *Service) Append(ctx context.Context, entry *changelogmodel.ChangeLogEntry) {
	if err := s.repo.Append(ctx, entry); err != nil {
		logger.LogError(err, "", 0, "", "append_change_log", "SERVICE", map[string]interface{}{
			"operation":   "append_change_log",
			"module":      entry.Module,
			"record_code": entry.RecordCode,
			"action":      entry.Action,
		})
	}
}

// AppendCreation 记录一条创建事件（新建模式保存成功后无条件写入）
func (s *Service) AppendCreation(ctx context.Context, module, recordCode string, actor system.Actor) {
	s.Append(ctx, &changelogmodel.ChangeLogEntry{
		Module:      module,
		RecordCode:  recordCode,
		Action:      "create",
		Description: recordCode + " 등록",
		ActorName:   actor.Name,
		ActorTeam:   actor.Team,
		ActorDept:   actor.Department,
	})
}

// AppendStatusChange 记录一条状态变更事件
func (s *Service) AppendStatusChange(ctx context.Context, module, recordCode, before, after string, actor system.Actor) {
	s.Append(ctx, &changelogmodel.ChangeLogEntry{
		Module:       module,
		RecordCode:   recordCode,
		Action:       "status_change",
		ChangedField: "status",
		BeforeValue:  before,
		AfterValue:   after,
		Description:  fmt.Sprintf("%s 상태 변경: %s → %s", recordCode, before, after),
		ActorName:    actor.Name,
		ActorTeam:    actor.Team,
		ActorDept:    actor.Department,
	})
}

// ListByRecordCode 按业务编号查询变更历史
func (s *Service) ListByRecordCode(ctx context.Context, module, recordCode string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	list, total, err := s.repo.ListByRecordCode(ctx, module, recordCode, page, pageSize)
	if err != nil {
		logger.LogBusinessError(err, "", 0, "", "list_change_logs", "SERVICE", map[string]interface{}{
			"operation":   "list_change_logs",
			"module":      module,
			"record_code": recordCode,
		})
		return nil, 0, err
	}
	return list, total, nil
}

// ListByModule 按模块查询变更历史
func (s *Service) ListByModule(ctx context.Context, module string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	list, total, err := s.repo.ListByModule(ctx, module, page, pageSize)
	if err != nil {
		logger.LogBusinessError(err, "", 0, "", "list_change_logs_by_module", "SERVICE", map[string]interface{}{
			"operation": "list_change_logs_by_module",
			"module":    module,
		})
		return nil, 0, err
	}
	return list, total, nil
}
