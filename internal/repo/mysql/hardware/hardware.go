package hardware

import (
	"context"
	"errors"

	hwmodel "adminboard/internal/model/hardware"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// HardwareRepository 硬件资产仓库
type HardwareRepository struct {
	db *gorm.DB
}

// NewHardwareRepository 创建 HardwareRepository 实例
func NewHardwareRepository(db *gorm.DB) *HardwareRepository {
	return &HardwareRepository{db: db}
}

// CreateRecord 创建硬件资产，返回新记录ID
func (r *HardwareRepository) CreateRecord(ctx context.Context, asset *hwmodel.HardwareAsset) (uint64, error) {
	if asset == nil {
		return 0, errors.New("hardware asset is nil")
	}
	err := r.db.WithContext(ctx).Create(asset).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_hardware_asset", "REPO", map[string]interface{}{
			"operation": "create_hardware_asset",
			"code":      asset.Code,
		})
		return 0, err
	}
	return asset.ID, nil
}

// GetRecordByID 根据ID获取硬件资产
func (r *HardwareRepository) GetRecordByID(ctx context.Context, id uint64) (*hwmodel.HardwareAsset, error) {
	var asset hwmodel.HardwareAsset
	err := r.db.WithContext(ctx).First(&asset, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_hardware_asset_by_id", "REPO", map[string]interface{}{
			"operation": "get_hardware_asset_by_id",
			"id":        id,
		})
		return nil, err
	}
	return &asset, nil
}

// GetRecordByCode 根据业务编号获取硬件资产
func (r *HardwareRepository) GetRecordByCode(ctx context.Context, code string) (*hwmodel.HardwareAsset, error) {
	var asset hwmodel.HardwareAsset
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_hardware_asset_by_code", "REPO", map[string]interface{}{
			"operation": "get_hardware_asset_by_code",
			"code":      code,
		})
		return nil, err
	}
	return &asset, nil
}

// UpdateRecord 更新硬件资产，Code 不可变更
func (r *HardwareRepository) UpdateRecord(ctx context.Context, id uint64, asset *hwmodel.HardwareAsset) error {
	if asset == nil || id == 0 {
		return errors.New("invalid hardware asset or id")
	}
	err := r.db.WithContext(ctx).Model(&hwmodel.HardwareAsset{}).
		Where("id = ?", id).
		Omit("code").
		Updates(asset).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_hardware_asset", "REPO", map[string]interface{}{
			"operation": "update_hardware_asset",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteRecord 删除硬件资产 (软删除)
func (r *HardwareRepository) DeleteRecord(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&hwmodel.HardwareAsset{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_hardware_asset", "REPO", map[string]interface{}{
			"operation": "delete_hardware_asset",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListRecords 获取全部硬件资产，按ID倒序
func (r *HardwareRepository) ListRecords(ctx context.Context) ([]*hwmodel.HardwareAsset, error) {
	var assets []*hwmodel.HardwareAsset
	err := r.db.WithContext(ctx).Order("id desc").Find(&assets).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_hardware_assets", "REPO", map[string]interface{}{
			"operation": "list_hardware_assets",
		})
		return nil, err
	}
	return assets, nil
}

// ListCodesByPrefix 获取指定前缀的全部业务编号，包含软删除记录
func (r *HardwareRepository) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&hwmodel.HardwareAsset{}).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_hardware_codes", "REPO", map[string]interface{}{
			"operation": "list_hardware_codes",
			"prefix":    prefix,
		})
		return nil, err
	}
	return codes, nil
}

// ExistsByCode 检查业务编号是否已被占用，包含软删除记录
func (r *HardwareRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&hwmodel.HardwareAsset{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "exists_hardware_code", "REPO", map[string]interface{}{
			"operation": "exists_hardware_code",
			"code":      code,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新硬件资产状态（对话框编辑或看板拖拽）
func (r *HardwareRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	err := r.db.WithContext(ctx).Model(&hwmodel.HardwareAsset{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_hardware_status", "REPO", map[string]interface{}{
			"operation": "update_hardware_status",
			"id":        id,
			"status":    status,
		})
		return err
	}
	return nil
}

// CountByStatus 按状态统计资产数量，供看板列头显示
func (r *HardwareRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&hwmodel.HardwareAsset{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "count_hardware_by_status", "REPO", map[string]interface{}{
			"operation": "count_hardware_by_status",
		})
		return nil, err
	}

	result := make(map[string]int64, len(rows))
	for _, r := range rows {
		result[r.Status] = r.Count
	}
	return result, nil
}
