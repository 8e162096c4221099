package cost

import (
	"context"
	"errors"

	costmodel "adminboard/internal/model/cost"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// CostRepository 费用记录仓库
// 负责 CostRecord 及其子集合的数据访问
type CostRepository struct {
	db *gorm.DB
}

// NewCostRepository 创建 CostRepository 实例
func NewCostRepository(db *gorm.DB) *CostRepository {
	return &CostRepository{db: db}
}

// -----------------------------------------------------------------------------
// CostRecord (费用记录) CRUD
// -----------------------------------------------------------------------------

// CreateRecord 创建费用记录，返回新记录ID
func (r *CostRepository) CreateRecord(ctx context.Context, record *costmodel.CostRecord) (uint64, error) {
	if record == nil {
		return 0, errors.New("cost record is nil")
	}
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_cost_record", "REPO", map[string]interface{}{
			"operation": "create_cost_record",
			"code":      record.Code,
		})
		return 0, err
	}
	return record.ID, nil
}

// GetRecordByID 根据ID获取费用记录
func (r *CostRepository) GetRecordByID(ctx context.Context, id uint64) (*costmodel.CostRecord, error) {
	var record costmodel.CostRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_cost_record_by_id", "REPO", map[string]interface{}{
			"operation": "get_cost_record_by_id",
			"id":        id,
		})
		return nil, err
	}
	return &record, nil
}

// GetRecordByCode 根据业务编号获取费用记录
func (r *CostRepository) GetRecordByCode(ctx context.Context, code string) (*costmodel.CostRecord, error) {
	var record costmodel.CostRecord
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_cost_record_by_code", "REPO", map[string]interface{}{
			"operation": "get_cost_record_by_code",
			"code":      code,
		})
		return nil, err
	}
	return &record, nil
}

// UpdateRecord 更新费用记录
// Code 创建后不可变更，更新时显式排除
func (r *CostRepository) UpdateRecord(ctx context.Context, id uint64, record *costmodel.CostRecord) error {
	if record == nil || id == 0 {
		return errors.New("invalid cost record or id")
	}
	err := r.db.WithContext(ctx).Model(&costmodel.CostRecord{}).
		Where("id = ?", id).
		Omit("code").
		Updates(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_cost_record", "REPO", map[string]interface{}{
			"operation": "update_cost_record",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteRecord 删除费用记录 (软删除)
func (r *CostRepository) DeleteRecord(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&costmodel.CostRecord{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_cost_record", "REPO", map[string]interface{}{
			"operation": "delete_cost_record",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListRecords 获取全部费用记录，按ID倒序
// 筛选与分页由 service 层的列表视图函数处理
func (r *CostRepository) ListRecords(ctx context.Context) ([]*costmodel.CostRecord, error) {
	var records []*costmodel.CostRecord
	err := r.db.WithContext(ctx).Order("id desc").Find(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_cost_records", "REPO", map[string]interface{}{
			"operation": "list_cost_records",
		})
		return nil, err
	}
	return records, nil
}

// ListCodesByPrefix 获取指定前缀的全部业务编号
// 包含软删除记录，编号在模块内全历史唯一
func (r *CostRepository) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&costmodel.CostRecord{}).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_cost_codes", "REPO", map[string]interface{}{
			"operation": "list_cost_codes",
			"prefix":    prefix,
		})
		return nil, err
	}
	return codes, nil
}

// ExistsByCode 检查业务编号是否已被占用
// 包含软删除记录
func (r *CostRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&costmodel.CostRecord{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "exists_cost_code", "REPO", map[string]interface{}{
			"operation": "exists_cost_code",
			"code":      code,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新费用记录状态
func (r *CostRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	err := r.db.WithContext(ctx).Model(&costmodel.CostRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_cost_status", "REPO", map[string]interface{}{
			"operation": "update_cost_status",
			"id":        id,
			"status":    status,
		})
		return err
	}
	return nil
}
