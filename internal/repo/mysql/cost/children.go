package cost

import (
	"context"
	"errors"

	costmodel "adminboard/internal/model/cost"
	"adminboard/internal/pkg/logger"
)

// -----------------------------------------------------------------------------
// CostLineItem (费用明细) 子集合
// -----------------------------------------------------------------------------

// CreateLineItem 创建费用明细行
func (r *CostRepository) CreateLineItem(ctx context.Context, recordID uint64, item *costmodel.CostLineItem) (uint64, error) {
	if item == nil || recordID == 0 {
		return 0, errors.New("invalid line item or record id")
	}
	item.RecordID = recordID
	err := r.db.WithContext(ctx).Create(item).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_cost_line_item", "REPO", map[string]interface{}{
			"operation": "create_cost_line_item",
			"record_id": recordID,
		})
		return 0, err
	}
	return item.ID, nil
}

// UpdateLineItem 更新费用明细行
func (r *CostRepository) UpdateLineItem(ctx context.Context, id uint64, item *costmodel.CostLineItem) error {
	if item == nil || id == 0 {
		return errors.New("invalid line item or id")
	}
	err := r.db.WithContext(ctx).Model(&costmodel.CostLineItem{}).
		Where("id = ?", id).
		Omit("record_id").
		Updates(item).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_cost_line_item", "REPO", map[string]interface{}{
			"operation": "update_cost_line_item",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteLineItem 删除费用明细行 (软删除)
func (r *CostRepository) DeleteLineItem(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&costmodel.CostLineItem{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_cost_line_item", "REPO", map[string]interface{}{
			"operation": "delete_cost_line_item",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListLineItems 获取费用记录的全部明细行
func (r *CostRepository) ListLineItems(ctx context.Context, recordID uint64) ([]*costmodel.CostLineItem, error) {
	var items []*costmodel.CostLineItem
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("sort_order asc, id asc").
		Find(&items).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_cost_line_items", "REPO", map[string]interface{}{
			"operation": "list_cost_line_items",
			"record_id": recordID,
		})
		return nil, err
	}
	return items, nil
}

// ReplaceLineItems 整批替换费用记录的明细行
// 明细行约定为整批替换保存：删除旧行后重建
func (r *CostRepository) ReplaceLineItems(ctx context.Context, recordID uint64, items []*costmodel.CostLineItem) error {
	if recordID == 0 {
		return errors.New("invalid record id")
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Where("record_id = ?", recordID).Delete(&costmodel.CostLineItem{}).Error; err != nil {
		tx.Rollback()
		logger.LogError(err, "", 0, "", "replace_cost_line_items", "REPO", map[string]interface{}{
			"operation": "replace_cost_line_items_delete",
			"record_id": recordID,
		})
		return err
	}

	for i, item := range items {
		item.ID = 0
		item.RecordID = recordID
		item.SortOrder = i
		if err := tx.Create(item).Error; err != nil {
			tx.Rollback()
			logger.LogError(err, "", 0, "", "replace_cost_line_items", "REPO", map[string]interface{}{
				"operation": "replace_cost_line_items_create",
				"record_id": recordID,
			})
			return err
		}
	}

	return tx.Commit().Error
}

// -----------------------------------------------------------------------------
// CostComment (费用备注) 子集合
// -----------------------------------------------------------------------------

// CreateComment 创建费用备注
func (r *CostRepository) CreateComment(ctx context.Context, recordID uint64, comment *costmodel.CostComment) (uint64, error) {
	if comment == nil || recordID == 0 {
		return 0, errors.New("invalid comment or record id")
	}
	comment.RecordID = recordID
	err := r.db.WithContext(ctx).Create(comment).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_cost_comment", "REPO", map[string]interface{}{
			"operation": "create_cost_comment",
			"record_id": recordID,
		})
		return 0, err
	}
	return comment.ID, nil
}

// UpdateComment 更新费用备注
func (r *CostRepository) UpdateComment(ctx context.Context, id uint64, comment *costmodel.CostComment) error {
	if comment == nil || id == 0 {
		return errors.New("invalid comment or id")
	}
	err := r.db.WithContext(ctx).Model(&costmodel.CostComment{}).
		Where("id = ?", id).
		Omit("record_id").
		Updates(comment).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_cost_comment", "REPO", map[string]interface{}{
			"operation": "update_cost_comment",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteComment 删除费用备注 (软删除)
func (r *CostRepository) DeleteComment(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&costmodel.CostComment{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_cost_comment", "REPO", map[string]interface{}{
			"operation": "delete_cost_comment",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListComments 获取费用记录的全部备注
func (r *CostRepository) ListComments(ctx context.Context, recordID uint64) ([]*costmodel.CostComment, error) {
	var comments []*costmodel.CostComment
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_cost_comments", "REPO", map[string]interface{}{
			"operation": "list_cost_comments",
			"record_id": recordID,
		})
		return nil, err
	}
	return comments, nil
}

// -----------------------------------------------------------------------------
// CostAttachment (费用附件) 子集合
// -----------------------------------------------------------------------------

// CreateAttachment 创建费用附件
func (r *CostRepository) CreateAttachment(ctx context.Context, recordID uint64, attachment *costmodel.CostAttachment) (uint64, error) {
	if attachment == nil || recordID == 0 {
		return 0, errors.New("invalid attachment or record id")
	}
	attachment.RecordID = recordID
	err := r.db.WithContext(ctx).Create(attachment).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_cost_attachment", "REPO", map[string]interface{}{
			"operation": "create_cost_attachment",
			"record_id": recordID,
		})
		return 0, err
	}
	return attachment.ID, nil
}

// UpdateAttachment 更新费用附件
func (r *CostRepository) UpdateAttachment(ctx context.Context, id uint64, attachment *costmodel.CostAttachment) error {
	if attachment == nil || id == 0 {
		return errors.New("invalid attachment or id")
	}
	err := r.db.WithContext(ctx).Model(&costmodel.CostAttachment{}).
		Where("id = ?", id).
		Omit("record_id").
		Updates(attachment).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_cost_attachment", "REPO", map[string]interface{}{
			"operation": "update_cost_attachment",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteAttachment 删除费用附件 (软删除)
func (r *CostRepository) DeleteAttachment(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&costmodel.CostAttachment{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_cost_attachment", "REPO", map[string]interface{}{
			"operation": "delete_cost_attachment",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListAttachments 获取费用记录的全部附件
func (r *CostRepository) ListAttachments(ctx context.Context, recordID uint64) ([]*costmodel.CostAttachment, error) {
	var attachments []*costmodel.CostAttachment
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("id asc").
		Find(&attachments).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_cost_attachments", "REPO", map[string]interface{}{
			"operation": "list_cost_attachments",
			"record_id": recordID,
		})
		return nil, err
	}
	return attachments, nil
}
