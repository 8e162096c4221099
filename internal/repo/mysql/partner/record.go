package partner

import (
	"context"
	"errors"

	partnermodel "adminboard/internal/model/partner"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// PartnerAuditRepository 协力公司保安监查仓库
// 负责 PartnerAudit 及其子集合的数据访问
type PartnerAuditRepository struct {
	db *gorm.DB
}

// NewPartnerAuditRepository 创建 PartnerAuditRepository 实例
func NewPartnerAuditRepository(db *gorm.DB) *PartnerAuditRepository {
	return &PartnerAuditRepository{db: db}
}

// CreateRecord 创建监查记录，返回新记录ID
func (r *PartnerAuditRepository) CreateRecord(ctx context.Context, record *partnermodel.PartnerAudit) (uint64, error) {
	if record == nil {
		return 0, errors.New("partner audit is nil")
	}
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_partner_audit", "REPO", map[string]interface{}{
			"operation": "create_partner_audit",
			"code":      record.Code,
		})
		return 0, err
	}
	return record.ID, nil
}

// GetRecordByID 根据ID获取监查记录
func (r *PartnerAuditRepository) GetRecordByID(ctx context.Context, id uint64) (*partnermodel.PartnerAudit, error) {
	var record partnermodel.PartnerAudit
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_partner_audit_by_id", "REPO", map[string]interface{}{
			"operation": "get_partner_audit_by_id",
			"id":        id,
		})
		return nil, err
	}
	return &record, nil
}

// GetRecordByCode 根据业务编号获取监查记录
func (r *PartnerAuditRepository) GetRecordByCode(ctx context.Context, code string) (*partnermodel.PartnerAudit, error) {
	var record partnermodel.PartnerAudit
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_partner_audit_by_code", "REPO", map[string]interface{}{
			"operation": "get_partner_audit_by_code",
			"code":      code,
		})
		return nil, err
	}
	return &record, nil
}

// UpdateRecord 更新监查记录，Code 不可变更
func (r *PartnerAuditRepository) UpdateRecord(ctx context.Context, id uint64, record *partnermodel.PartnerAudit) error {
	if record == nil || id == 0 {
		return errors.New("invalid partner audit or id")
	}
	err := r.db.WithContext(ctx).Model(&partnermodel.PartnerAudit{}).
		Where("id = ?", id).
		Omit("code").
		Updates(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_partner_audit", "REPO", map[string]interface{}{
			"operation": "update_partner_audit",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteRecord 删除监查记录 (软删除)
func (r *PartnerAuditRepository) DeleteRecord(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&partnermodel.PartnerAudit{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_partner_audit", "REPO", map[string]interface{}{
			"operation": "delete_partner_audit",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListRecords 获取全部监查记录，按ID倒序
func (r *PartnerAuditRepository) ListRecords(ctx context.Context) ([]*partnermodel.PartnerAudit, error) {
	var records []*partnermodel.PartnerAudit
	err := r.db.WithContext(ctx).Order("id desc").Find(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_partner_audits", "REPO", map[string]interface{}{
			"operation": "list_partner_audits",
		})
		return nil, err
	}
	return records, nil
}

// ListCodesByPrefix 获取指定前缀的全部业务编号，包含软删除记录
func (r *PartnerAuditRepository) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&partnermodel.PartnerAudit{}).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_partner_audit_codes", "REPO", map[string]interface{}{
			"operation": "list_partner_audit_codes",
			"prefix":    prefix,
		})
		return nil, err
	}
	return codes, nil
}

// ExistsByCode 检查业务编号是否已被占用，包含软删除记录
func (r *PartnerAuditRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&partnermodel.PartnerAudit{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "exists_partner_audit_code", "REPO", map[string]interface{}{
			"operation": "exists_partner_audit_code",
			"code":      code,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新监查记录状态
func (r *PartnerAuditRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	err := r.db.WithContext(ctx).Model(&partnermodel.PartnerAudit{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_partner_audit_status", "REPO", map[string]interface{}{
			"operation": "update_partner_audit_status",
			"id":        id,
			"status":    status,
		})
		return err
	}
	return nil
}
