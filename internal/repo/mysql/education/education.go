package education

import (
	"context"
	"errors"

	edumodel "adminboard/internal/model/education"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// EducationRepository 教育记录仓库
// 负责 EducationRecord 与受训人员名单的数据访问
type EducationRepository struct {
	db *gorm.DB
}

// NewEducationRepository 创建 EducationRepository 实例
func NewEducationRepository(db *gorm.DB) *EducationRepository {
	return &EducationRepository{db: db}
}

// CreateRecord 创建教育记录，返回新记录ID
func (r *EducationRepository) CreateRecord(ctx context.Context, record *edumodel.EducationRecord) (uint64, error) {
	if record == nil {
		return 0, errors.New("education record is nil")
	}
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_education_record", "REPO", map[string]interface{}{
			"operation": "create_education_record",
			"code":      record.Code,
		})
		return 0, err
	}
	return record.ID, nil
}

// GetRecordByID 根据ID获取教育记录
func (r *EducationRepository) GetRecordByID(ctx context.Context, id uint64) (*edumodel.EducationRecord, error) {
	var record edumodel.EducationRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_education_record_by_id", "REPO", map[string]interface{}{
			"operation": "get_education_record_by_id",
			"id":        id,
		})
		return nil, err
	}
	return &record, nil
}

// GetRecordByCode 根据业务编号获取教育记录
func (r *EducationRepository) GetRecordByCode(ctx context.Context, code string) (*edumodel.EducationRecord, error) {
	var record edumodel.EducationRecord
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_education_record_by_code", "REPO", map[string]interface{}{
			"operation": "get_education_record_by_code",
			"code":      code,
		})
		return nil, err
	}
	return &record, nil
}

// UpdateRecord 更新教育记录，Code 不可变更
func (r *EducationRepository) UpdateRecord(ctx context.Context, id uint64, record *edumodel.EducationRecord) error {
	if record == nil || id == 0 {
		return errors.New("invalid education record or id")
	}
	err := r.db.WithContext(ctx).Model(&edumodel.EducationRecord{}).
		Where("id = ?", id).
		Omit("code").
		Updates(record).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_education_record", "REPO", map[string]interface{}{
			"operation": "update_education_record",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteRecord 删除教育记录 (软删除)
func (r *EducationRepository) DeleteRecord(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&edumodel.EducationRecord{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_education_record", "REPO", map[string]interface{}{
			"operation": "delete_education_record",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListRecords 获取全部教育记录，按ID倒序
func (r *EducationRepository) ListRecords(ctx context.Context) ([]*edumodel.EducationRecord, error) {
	var records []*edumodel.EducationRecord
	err := r.db.WithContext(ctx).Order("id desc").Find(&records).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_education_records", "REPO", map[string]interface{}{
			"operation": "list_education_records",
		})
		return nil, err
	}
	return records, nil
}

// ListCodesByPrefix 获取指定前缀的全部业务编号，包含软删除记录
func (r *EducationRepository) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Unscoped().
		Model(&edumodel.EducationRecord{}).
		Where("code LIKE ?", prefix+"-%").
		Pluck("code", &codes).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_education_codes", "REPO", map[string]interface{}{
			"operation": "list_education_codes",
			"prefix":    prefix,
		})
		return nil, err
	}
	return codes, nil
}

// ExistsByCode 检查业务编号是否已被占用，包含软删除记录
func (r *EducationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&edumodel.EducationRecord{}).
		Where("code = ?", code).
		Count(&count).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "exists_education_code", "REPO", map[string]interface{}{
			"operation": "exists_education_code",
			"code":      code,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新教育记录状态
func (r *EducationRepository) UpdateStatus(ctx context.Context, id uint64, status string) error {
	err := r.db.WithContext(ctx).Model(&edumodel.EducationRecord{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_education_status", "REPO", map[string]interface{}{
			"operation": "update_education_status",
			"id":        id,
			"status":    status,
		})
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------
// EducationAttendee (受训人员) 子集合
// -----------------------------------------------------------------------------

// CreateAttendee 创建受训人员
func (r *EducationRepository) CreateAttendee(ctx context.Context, recordID uint64, attendee *edumodel.EducationAttendee) (uint64, error) {
	if attendee == nil || recordID == 0 {
		return 0, errors.New("invalid attendee or record id")
	}
	attendee.RecordID = recordID
	err := r.db.WithContext(ctx).Create(attendee).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_education_attendee", "REPO", map[string]interface{}{
			"operation": "create_education_attendee",
			"record_id": recordID,
		})
		return 0, err
	}
	return attendee.ID, nil
}

// UpdateAttendee 更新受训人员
func (r *EducationRepository) UpdateAttendee(ctx context.Context, id uint64, attendee *edumodel.EducationAttendee) error {
	if attendee == nil || id == 0 {
		return errors.New("invalid attendee or id")
	}
	err := r.db.WithContext(ctx).Model(&edumodel.EducationAttendee{}).
		Where("id = ?", id).
		Omit("record_id").
		Updates(attendee).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_education_attendee", "REPO", map[string]interface{}{
			"operation": "update_education_attendee",
			"id":        id,
		})
		return err
	}
	return nil
}

// DeleteAttendee 删除受训人员 (软删除)
func (r *EducationRepository) DeleteAttendee(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Delete(&edumodel.EducationAttendee{}, id).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "delete_education_attendee", "REPO", map[string]interface{}{
			"operation": "delete_education_attendee",
			"id":        id,
		})
		return err
	}
	return nil
}

// ListAttendees 获取教育记录的全部受训人员
func (r *EducationRepository) ListAttendees(ctx context.Context, recordID uint64) ([]*edumodel.EducationAttendee, error) {
	var attendees []*edumodel.EducationAttendee
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("id asc").
		Find(&attendees).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "list_education_attendees", "REPO", map[string]interface{}{
			"operation": "list_education_attendees",
			"record_id": recordID,
		})
		return nil, err
	}
	return attendees, nil
}
