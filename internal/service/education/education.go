/**
 * 服务层:教育管理服务
 * @description: 保安教育记录的列表筛选、详情、状态流转、删除与修完率统计
 * @func:
 * 	1.List: 列表查询(筛选+分页+行号+修完率)
 * 	2.GetDetail: 详情查询
 * 	3.ChangeStatus: 状态流转
 * 	4.Delete: 删除
 * 	5.History: 变更历史
 */
package education

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	edumodel "adminboard/internal/model/education"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/listview"
	"adminboard/internal/pkg/logger"
	edurepo "adminboard/internal/repo/mysql/education"
	"adminboard/internal/service/changelog"
	"adminboard/internal/service/draft"
)

// ModuleName 变更日志中的模块标识
const ModuleName = "education"

// Repository 教育数据访问接口,由 repo/mysql/education 实现
type Repository interface {
	CreateRecord(ctx context.Context, record *edumodel.EducationRecord) (uint64, error)
	GetRecordByID(ctx context.Context, id uint64) (*edumodel.EducationRecord, error)
	GetRecordByCode(ctx context.Context, code string) (*edumodel.EducationRecord, error)
	UpdateRecord(ctx context.Context, id uint64, record *edumodel.EducationRecord) error
	DeleteRecord(ctx context.Context, id uint64) error
	ListRecords(ctx context.Context) ([]*edumodel.EducationRecord, error)
	ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	CreateAttendee(ctx context.Context, recordID uint64, attendee *edumodel.EducationAttendee) (uint64, error)
	UpdateAttendee(ctx context.Context, id uint64, attendee *edumodel.EducationAttendee) error
	DeleteAttendee(ctx context.Context, id uint64) error
	ListAttendees(ctx context.Context, recordID uint64) ([]*edumodel.EducationAttendee, error)
}

// 编译期校验:MySQL实现满足接口
var _ Repository = (*edurepo.EducationRepository)(nil)

// Service 教育管理服务
type Service struct {
	repo      Repository
	logs      *changelog.Service
	tracker   *changelog.Tracker
	editors   *draft.Registry[*EditorSession]
	maxProbes int
}

// NewService 创建教育服务实例
func NewService(repo Repository, logs *changelog.Service, tracker *changelog.Tracker, maxProbes int) *Service {
	return &Service{
		repo:      repo,
		logs:      logs,
		tracker:   tracker,
		editors:   draft.NewRegistry[*EditorSession](),
		maxProbes: maxProbes,
	}
}

// ListRow 列表行
type ListRow struct {
	No int `json:"no"`
	*edumodel.EducationRecord
}

// DetailView 详情视图,含受训名单与修完率
type DetailView struct {
	Record         *edumodel.EducationRecord     `json:"record"`
	Attendees      []*edumodel.EducationAttendee `json:"attendees"`
	CompletionRate float64                       `json:"completion_rate"`
}

// CompletionRate 计算修完率(百分比),无受训人员时为0
func CompletionRate(attendees []*edumodel.EducationAttendee) float64 {
	if len(attendees) == 0 {
		return 0
	}
	completed := 0
	for _, a := range attendees {
		if a.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(attendees)) * 100
}

// byKeyword 关键字筛选,匹配业务编号、课程名称或讲师
func byKeyword(keyword string) listview.Filter[*edumodel.EducationRecord] {
	if keyword == "" {
		return func(*edumodel.EducationRecord) bool { return true }
	}
	return func(r *edumodel.EducationRecord) bool {
		return strings.Contains(r.Code, keyword) ||
			strings.Contains(r.Course, keyword) ||
			strings.Contains(r.Instructor, keyword)
	}
}

// filter 应用筛选条件并按ID降序排序
func (s *Service) filter(ctx context.Context, req *model.ListRequest) ([]*edumodel.EducationRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list education records: %w", err)
	}

	filtered := listview.Apply(records,
		listview.ByField(req.Team, func(r *edumodel.EducationRecord) string { return r.Team }),
		listview.ByField(req.Status, func(r *edumodel.EducationRecord) string { return r.Status }),
		listview.ByField(req.Assignee, func(r *edumodel.EducationRecord) string { return r.Instructor }),
		listview.ByYear(req.Year, func(r *edumodel.EducationRecord) time.Time {
			if r.EducationDate == nil {
				return time.Time{}
			}
			return *r.EducationDate
		}),
		byKeyword(req.Keyword),
	)
	listview.SortBySeqDesc(filtered, func(r *edumodel.EducationRecord) uint64 { return r.ID })
	return filtered, nil
}

// List 列表查询
func (s *Service) List(ctx context.Context, req *model.ListRequest) (*model.PaginationResponse, error) {
	req.Normalize()

	filtered, err := s.filter(ctx, req)
	if err != nil {
		return nil, err
	}

	total := int64(len(filtered))
	pageIndex := req.Page - 1
	pageItems := listview.Page(filtered, pageIndex, req.PageSize)

	rows := make([]*ListRow, 0, len(pageItems))
	for i, record := range pageItems {
		rows = append(rows, &ListRow{
			No:              listview.RowNumber(int(total), pageIndex, req.PageSize, i),
			EducationRecord: record,
		})
	}

	totalPages := listview.TotalPages(total, req.PageSize)
	return &model.PaginationResponse{
		Total:       total,
		Page:        req.Page,
		PageSize:    req.PageSize,
		TotalPages:  totalPages,
		HasNext:     req.Page < totalPages,
		HasPrevious: req.Page > 1,
		Data:        rows,
	}, nil
}

// GetDetail 详情查询
func (s *Service) GetDetail(ctx context.Context, id uint64) (*DetailView, error) {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get education record: %w", err)
	}
	if record == nil {
		return nil, errors.New("education record not found")
	}

	attendees, err := s.repo.ListAttendees(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DetailView{
		Record:         record,
		Attendees:      attendees,
		CompletionRate: CompletionRate(attendees),
	}, nil
}

// ChangeStatus 状态流转
func (s *Service) ChangeStatus(ctx context.Context, id uint64, newStatus string, actor system.Actor) (bool, error) {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get education record: %w", err)
	}
	if record == nil {
		return false, errors.New("education record not found")
	}

	return s.tracker.Transition(ctx, ModuleName, id, record.Code, record.Status, newStatus, actor, s.repo.UpdateStatus)
}

// Delete 删除教育记录并记录审计日志
func (s *Service) Delete(ctx context.Context, id uint64, actor system.Actor) error {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get education record: %w", err)
	}
	if record == nil {
		return errors.New("education record not found")
	}

	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return err
	}

	s.logs.Append(ctx, &changelogmodel.ChangeLogEntry{
		Module:      ModuleName,
		RecordCode:  record.Code,
		Action:      "delete",
		Description: record.Code + " 삭제",
		ActorName:   actor.Name,
		ActorTeam:   actor.Team,
		ActorDept:   actor.Department,
	})

	logger.LogBusinessOperation("education_delete", uint(actor.UserID), actor.Name, "", "", "success", "教育记录删除成功", map[string]interface{}{
		"record_id": id,
		"code":      record.Code,
	})
	return nil
}

// History 按业务编号查询变更历史
func (s *Service) History(ctx context.Context, code string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	record, err := s.repo.GetRecordByCode(ctx, code)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get education record: %w", err)
	}
	if record == nil {
		return nil, 0, errors.New("education record not found")
	}
	return s.logs.ListByRecordCode(ctx, ModuleName, code, page, pageSize)
}
