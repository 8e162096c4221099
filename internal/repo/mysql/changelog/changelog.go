package changelog

import (
	"context"
	"errors"

	changelogmodel "adminboard/internal/model/changelog"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// ChangeLogRepository 变更日志仓库
// 只追加、只查询：日志一经写入既不更新也不删除
type ChangeLogRepository struct {
	db *gorm.DB
}

// NewChangeLogRepository 创建 ChangeLogRepository 实例
func NewChangeLogRepository(db *gorm.DB) *ChangeLogRepository {
	return &ChangeLogRepository{db: db}
}

// Append 追加一条变更日志
func (r *ChangeLogRepository) Append(ctx context.Context, entry *changelogmodel.ChangeLogEntry) error {
	if entry == nil {
		return errors.New("change log entry is nil")
	}
	err := r.db.WithContext(ctx).Create(entry).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "append_change_log", "REPO", map[string]interface{}{
			"operation":   "append_change_log",
			"module":      entry.Module,
			"record_code": entry.RecordCode,
		})
		return err
	}
	return nil
}

// ListByRecordCode 按业务编号查询变更历史，最新在前
func (r *ChangeLogRepository) ListByRecordCode(ctx context.Context, module, recordCode string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	var entries []*changelogmodel.ChangeLogEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&changelogmodel.ChangeLogEntry{}).
		Where("module = ? AND record_code = ?", module, recordCode)

	if err := query.Count(&total).Error; err != nil {
		logger.LogError(err, "", 0, "", "list_change_logs_count", "REPO", map[string]interface{}{
			"operation":   "list_change_logs_count",
			"module":      module,
			"record_code": recordCode,
		})
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("id desc").Find(&entries).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_change_logs_find", "REPO", map[string]interface{}{
			"operation":   "list_change_logs_find",
			"module":      module,
			"record_code": recordCode,
		})
		return nil, 0, err
	}

	return entries, total, nil
}

// ListByModule 按模块查询变更历史，最新在前
func (r *ChangeLogRepository) ListByModule(ctx context.Context, module string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	var entries []*changelogmodel.ChangeLogEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&changelogmodel.ChangeLogEntry{}).
		Where("module = ?", module)

	if err := query.Count(&total).Error; err != nil {
		logger.LogError(err, "", 0, "", "list_module_change_logs_count", "REPO", map[string]interface{}{
			"operation": "list_module_change_logs_count",
			"module":    module,
		})
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("id desc").Find(&entries).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_module_change_logs_find", "REPO", map[string]interface{}{
			"operation": "list_module_change_logs_find",
			"module":    module,
		})
		return nil, 0, err
	}

	return entries, total, nil
}
