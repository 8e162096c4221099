package inspection

import (
	"context"
	"errors"

	inspmodel "adminboard/internal/model/inspection"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// InspectionRepository 客户保安点检仓库
// 负责 Inspection 及其子集合的数据访问
type InspectionRepository struct {
	db *gorm.DB
}

// NewInspectionRepository 创建 InspectionRepository 实例
func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// CreateRecord 创建点检记录，返回新记录ID
func (r *InspectionRepository) CreateRecord(ctx context.Context, record *inspmodel.Inspection) (uint64, error) {
	if record == nil {
		return 0, errors.New("inspection is nil")
	}
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_inspection", "REPO", map[string]interface{}{
			"operation": "create_inspection",
			"code":      record.Code,
		})
		return 0, err
	}
	return record.ID, nil
}

// GetRecordByID 根据ID获取点检记录
func (r *InspectionRepository) GetRecordByID(ctx context.Context, id uint64) (*inspmodel.Inspection, error) {
	var record inspmodel.Inspection
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_inspection_by_id", "REPO", map[string]interface{}{
			"operation": "get_inspection_by_id",
			"id":        id,
		})
		return nil, err
	}
	return &record, nil
}

// GetRecordByCode 根据业务编号获取点检记录
func (r *InspectionRepository) GetRecordByCode(ctx context.Context, code string) (*inspmodel.Inspection, error) {
	var record inspmodel.Inspection
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_inspection_by_code", "REPO", map[string]interface{}{
			"operation": "get_inspection_by_code",
			"code":      code,
		})
		return nil, err
	}
	return &record, nil
}

// UpdateRecord 更新点检记录，Code 不可变更
func (r *InspectionRepository) UpdateRecord(ctx context.Context, id uint64, record *inspmodel.Inspection) error {
	if record == nil || id == 0 {
		return errors.New("invalid inspection or id")
	}
	err := r.db.WithContext(ctx).Model(&inspmodel.Inspection{}).
		Where("id = ?", id).
		Omit("code").
		Updates(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_inspection", "REPO", map[string]interface{}{
			"operation": "update_inspection",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteRecord 删除点检记录 (软删除)
func (r *InspectionRepository) DeleteRecord(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&inspmodel.Inspection{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_inspection", "REPO", map[string]interface{}{
			"operation": "delete_inspection",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListRecords 获取全部点检记录，按ID倒序
func (r *InspectionRepository) ListRecords(ctx context.Context) ([]*inspmodel.Inspection, error) {
	var records []*inspmodel.Inspection
	err := r.db.WithContext(ctx).Order("id desc").Find(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_inspections", "REPO", map[string]interface{}{
			"operation": "list_inspections",
		})
		return nil, err
	}
	return records, nil
}

// ListCodesByPrefix 获取指定前缀的全部业务编号，包含软删除记录
func (r *InspectionRepository) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&inspmodel.Inspection{}).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_inspection_codes", "REPO", map[string]interface{}{
			"operation": "list_inspection_codes",
			"prefix":    prefix,
		})
		return nil, err
	}
	return codes, nil
}

// ExistsByCode 检查业务编号是否已被占用，包含软删除记录
func (r *InspectionRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&inspmodel.Inspection{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "exists_inspection_code", "REPO", map[string]interface{}{
			"operation": "exists_inspection_code",
			"code":      code,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新点检记录状态
func (r *InspectionRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	err := r.db.WithContext(ctx).Model(&inspmodel.Inspection{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_inspection_status", "REPO", map[string]interface{}{
			"operation": "update_inspection_status",
			"id":        id,
			"status":    status,
		})
		return err
	}
	return nil
}
