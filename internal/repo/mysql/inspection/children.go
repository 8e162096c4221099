package inspection

import (
	"context"
	"errors"

	inspmodel "adminboard/internal/model/inspection"
	"adminboard/internal/pkg/logger"
)

// -----------------------------------------------------------------------------
// ChecklistEvaluation (检查项评估) 子集合
// -----------------------------------------------------------------------------

// ListEvaluations 获取点检记录的全部检查项评估
func (r *InspectionRepository) ListEvaluations(ctx context.Context, recordID uint64) ([]*inspmodel.ChecklistEvaluation, error) {
	var evaluations []*inspmodel.ChecklistEvaluation
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("sort_order asc, id asc").
		Find(&evaluations).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_inspection_evaluations", "REPO", map[string]interface{}{
			"operation": "list_inspection_evaluations",
			"record_id": recordID,
		})
		return nil, err
	}
	return evaluations, nil
}

// ReplaceEvaluations 整批替换点检记录的检查项评估
func (r *InspectionRepository) ReplaceEvaluations(ctx context.Context, recordID uint64, evaluations []*inspmodel.ChecklistEvaluation) error {
	if recordID == 0 {
		return errors.New("invalid record id")
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("record_id = ?", recordID).Delete(&inspmodel.ChecklistEvaluation{}).Error; err != nil {
		tx.Rollback()
		logger.LogError(err, "", 0, "", "replace_inspection_evaluations", "REPO", map[string]interface{}{
			"operation": "replace_inspection_evaluations_delete",
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
			logger.LogError(err, "", 0, "", "replace_inspection_evaluations", "REPO", map[string]interface{}{
				"operation": "replace_inspection_evaluations_create",
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
func (r *InspectionRepository) CreateOPLItem(ctx context.Context, recordID uint64, item *inspmodel.OPLItem) (uint64, error) {
	if item == nil || recordID == 0 {
		return 0, errors.New("invalid opl item or record id")
	}
	item.RecordID = recordID
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_inspection_opl", "REPO", map[string]interface{}{
			"operation": "create_inspection_opl",
			"record_id": recordID,
			"code":      item.Code,
		})
		return 0, err
	}
	return item.ID, nil
}

// UpdateOPLItem 更新OPL事项
func (r *InspectionRepository) UpdateOPLItem(ctx context.Context, id uint64, item *inspmodel.OPLItem) error {
	if item == nil || id == 0 {
		return errors.New("invalid opl item or id")
	}
	err := r.db.WithContext(ctx).Model(&inspmodel.OPLItem{}).
		Where("id = ?", id).
		Omit("record_id", "code").
		Updates(item).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_inspection_opl", "REPO", map[string]interface{}{
			"operation": "update_inspection_opl",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteOPLItem 删除OPL事项 (软删除)
func (r *InspectionRepository) DeleteOPLItem(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&inspmodel.OPLItem{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_inspection_opl", "REPO", map[string]interface{}{
			"operation": "delete_inspection_opl",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListOPLItems 获取点检记录的全部OPL事项
func (r *InspectionRepository) ListOPLItems(ctx context.Context, recordID uint64) ([]*inspmodel.OPLItem, error) {
	var items []*inspmodel.OPLItem
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_inspection_opls", "REPO", map[string]interface{}{
			"operation": "list_inspection_opls",
			"record_id": recordID,
		})
		return nil, err
	}
	return items, nil
}

// ListOPLCodes 获取点检记录全部OPL编号，包含软删除
// 子编号同样全历史唯一，分配时需要完整编号集合
func (r *InspectionRepository) ListOPLCodes(ctx context.Context, recordID uint64) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&inspmodel.OPLItem{}).
		Where("record_id = ?", recordID).
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_inspection_opl_codes", "REPO", map[string]interface{}{
			"operation": "list_inspection_opl_codes",
			"record_id": recordID,
		})
		return nil, err
	}
	return codes, nil
}
