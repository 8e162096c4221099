package sales

import (
	"context"
	"errors"

	salesmodel "adminboard/internal/model/sales"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// SalesRepository 销售记录仓库
type SalesRepository struct {
	db *gorm.DB
}

// NewSalesRepository 创建 SalesRepository 实例
func NewSalesRepository(db *gorm.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// CreateRecord 创建销售记录，返回新记录ID
func (r *SalesRepository) CreateRecord(ctx context.Context, record *salesmodel.SalesRecord) (uint64, error) {
	if record == nil {
		return 0, errors.New("sales record is nil")
	}
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_sales_record", "REPO", map[string]interface{}{
			"operation": "create_sales_record",
			"code":      record.Code,
		})
		return 0, err
	}
	return record.ID, nil
}

// GetRecordByID 根据ID获取销售记录
func (r *SalesRepository) GetRecordByID(ctx context.Context, id uint64) (*salesmodel.SalesRecord, error) {
	var record salesmodel.SalesRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_sales_record_by_id", "REPO", map[string]interface{}{
			"operation": "get_sales_record_by_id",
			"id":        id,
		})
		return nil, err
	}
	return &record, nil
}

// GetRecordByCode 根据业务编号获取销售记录
func (r *SalesRepository) GetRecordByCode(ctx context.Context, code string) (*salesmodel.SalesRecord, error) {
	var record salesmodel.SalesRecord
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_sales_record_by_code", "REPO", map[string]interface{}{
			"operation": "get_sales_record_by_code",
			"code":      code,
		})
		return nil, err
	}
	return &record, nil
}

// UpdateRecord 更新销售记录，Code 不可变更
func (r *SalesRepository) UpdateRecord(ctx context.Context, id uint64, record *salesmodel.SalesRecord) error {
	if record == nil || id == 0 {
		return errors.New("invalid sales record or id")
	}
	err := r.db.WithContext(ctx).Model(&salesmodel.SalesRecord{}).
		Where("id = ?", id).
		Omit("code").
		Updates(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_sales_record", "REPO", map[string]interface{}{
			"operation": "update_sales_record",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteRecord 删除销售记录 (软删除)
func (r *SalesRepository) DeleteRecord(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&salesmodel.SalesRecord{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_sales_record", "REPO", map[string]interface{}{
			"operation": "delete_sales_record",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListRecords 获取全部销售记录，按ID倒序
func (r *SalesRepository) ListRecords(ctx context.Context) ([]*salesmodel.SalesRecord, error) {
	var records []*salesmodel.SalesRecord
	err := r.db.WithContext(ctx).Order("id desc").Find(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_sales_records", "REPO", map[string]interface{}{
			"operation": "list_sales_records",
		})
		return nil, err
	}
	return records, nil
}

// ListCodesByPrefix 获取指定前缀的全部业务编号，包含软删除记录
func (r *SalesRepository) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&salesmodel.SalesRecord{}).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_sales_codes", "REPO", map[string]interface{}{
			"operation": "list_sales_codes",
			"prefix":    prefix,
		})
		return nil, err
	}
	return codes, nil
}

// ExistsByCode 检查业务编号是否已被占用，包含软删除记录
func (r *SalesRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&salesmodel.SalesRecord{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "exists_sales_code", "REPO", map[string]interface{}{
			"operation": "exists_sales_code",
			"code":      code,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新销售记录状态
func (r *SalesRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	err := r.db.WithContext(ctx).Model(&salesmodel.SalesRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_sales_status", "REPO", map[string]interface{}{
			"operation": "update_sales_status",
			"id":        id,
			"status":    status,
		})
		return err
	}
	return nil
}

// SummarizeByMonth 按月汇总指定年度的销售额与利润
// 以销售日(sale_date)所在日历月分组
func (r *SalesRepository) SummarizeByMonth(ctx context.Context, year int) ([]*salesmodel.MonthlySummary, error) {
	var summaries []*salesmodel.MonthlySummary
	err := r.db.WithContext(ctx).Model(&salesmodel.SalesRecord{}).
		Select("YEAR(sale_date) as year, MONTH(sale_date) as month, SUM(amount) as total_amount, SUM(margin) as total_margin, COUNT(*) as count").
		Where("YEAR(sale_date) = ?", year).
		Group("YEAR(sale_date), MONTH(sale_date)").
		Order("month asc").
		Scan(&summaries).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "summarize_sales_by_month", "REPO", map[string]interface{}{
			"operation": "summarize_sales_by_month",
			"year":      year,
		})
		return nil, err
	}
	return summaries, nil
}
