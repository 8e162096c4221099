package partner

import (
	"context"
	"errors"

	partnermodel "adminboard/internal/model/partner"
	"adminboard/internal/pkg/logger"
)

// -----------------------------------------------------------------------------
// ChecklistEvaluation (检查项评估) 子集合
// -----------------------------------------------------------------------------

// ListEvaluations 获取监查记录的全部检查项评估
func (r *PartnerAuditRepository) ListEvaluations(ctx context.Context, recordID uint64) ([]*partnermodel.ChecklistEvaluation, error) {
	var evaluations []*partnermodel.ChecklistEvaluation
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("sort_order asc, id asc").
		Find(&evaluations).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_partner_evaluations", "REPO", map[string]interface{}{
			"operation": "list_partner_evaluations",
			"record_id": recordID,
		})
		return nil, err
	}
	return evaluations, nil
}

// ReplaceEvaluations 整批替换监查记录的检查项评估
func (r *PartnerAuditRepository) ReplaceEvaluations(ctx context.Context, recordID uint64, evaluations []*partnermodel.ChecklistEvaluation) error {
	if recordID == 0 {
		return errors.New("invalid record id")
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("record_id = ?", recordID).Delete(&partnermodel.ChecklistEvaluation{}).Error; err != nil {
		tx.Rollback()
		logger.LogError(err, "", 0, "", "replace_partner_evaluations", "REPO", map[string]interface{}{
			"operation": "replace_partner_evaluations_delete",
			"record_id": recordID,
		})
		return err
	}

	for i, evaluation := range evaluations {
		evaluation.ID = 0
		evaluation.RecordID = recordID
		evaluation.SortOrder = i
		if err := tx.Create(evaluation).Error; err != nil {
			tx.Rollback()
			logger.LogError(err, "", 0, "", "replace_partner_evaluations", "REPO", map[string]interface{}{
				"operation": "replace_partner_evaluations_create",
				"record_id": recordID,
			})
			return err
		}
	}

	return tx.Commit().Error
}

// -----------------------------------------------------------------------------
// OPLItem (OPL改善事项) 子集合
// -----------------------------------------------------------------------------

// CreateOPLItem 创建OPL事项
func (r *PartnerAuditRepository) CreateOPLItem(ctx context.Context, recordID uint64, item *partnermodel.OPLItem) (uint64, error) {
	if item == nil || recordID == 0 {
		return 0, errors.New("invalid opl item or record id")
	}
	item.RecordID = recordID
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_partner_opl", "REPO", map[string]interface{}{
			"operation": "create_partner_opl",
			"record_id": recordID,
			"code":      item.Code,
		})
		return 0, err
	}
	return item.ID, nil
}

// UpdateOPLItem 更新OPL事项
func (r *PartnerAuditRepository) UpdateOPLItem(ctx context.Context, id uint64, item *partnermodel.OPLItem) error {
	if item == nil || id == 0 {
		return errors.New("invalid opl item or id")
	}
	err := r.db.WithContext(ctx).Model(&partnermodel.OPLItem{}).
		Where("id = ?", id).
		Omit("record_id", "code").
		Updates(item).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_partner_opl", "REPO", map[string]interface{}{
			"operation": "update_partner_opl",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteOPLItem 删除OPL事项 (软删除)
func (r *PartnerAuditRepository) DeleteOPLItem(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&partnermodel.OPLItem{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_partner_opl", "REPO", map[string]interface{}{
			"operation": "delete_partner_opl",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListOPLItems 获取监查记录的全部OPL事项
func (r *PartnerAuditRepository) ListOPLItems(ctx context.Context, recordID uint64) ([]*partnermodel.OPLItem, error) {
	var items []*partnermodel.OPLItem
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_partner_opls", "REPO", map[string]interface{}{
			"operation": "list_partner_opls",
			"record_id": recordID,
		})
		return nil, err
	}
	return items, nil
}

// ListOPLCodes 获取监查记录全部OPL编号，包含软删除
func (r *PartnerAuditRepository) ListOPLCodes(ctx context.Context, recordID uint64) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&partnermodel.OPLItem{}).
		Where("record_id = ?", recordID).
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_partner_opl_codes", "REPO", map[string]interface{}{
			"operation": "list_partner_opl_codes",
			"record_id": recordID,
		})
		return nil, err
	}
	return codes, nil
}
