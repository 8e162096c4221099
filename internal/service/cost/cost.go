/**
 * 服务层:费用管理服务
 * @description: 费用记录的列表筛选、详情、状态流转、删除与CSV导出。
 *               列表筛选与分页为内存纯函数计算,行号跨页降序连续
 * @func:
 * 	1.List: 列表查询(筛选+分页+行号)
 * 	2.GetDetail: 详情查询
 * 	3.ChangeStatus: 状态流转
 * 	4.Delete: 删除
 * 	5.ExportCSV: CSV导出
 */
package cost

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	costmodel "adminboard/internal/model/cost"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/listview"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/pkg/utils"
	costrepo "adminboard/internal/repo/mysql/cost"
	"adminboard/internal/service/changelog"
	"adminboard/internal/service/draft"
)

// ModuleName 变更日志中的模块标识
const ModuleName = "cost"

// ExportModuleName CSV导出文件名中的模块名
const ExportModuleName = "비용관리"

// Repository 费用数据访问接口,由 repo/mysql/cost 实现
type Repository interface {
	CreateRecord(ctx context.Context, record *costmodel.CostRecord) (uint64, error)
	GetRecordByID(ctx context.Context, id uint64) (*costmodel.CostRecord, error)
	GetRecordByCode(ctx context.Context, code string) (*costmodel.CostRecord, error)
	UpdateRecord(ctx context.Context, id uint64, record *costmodel.CostRecord) error
	DeleteRecord(ctx context.Context, id uint64) error
	ListRecords(ctx context.Context) ([]*costmodel.CostRecord, error)
	ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	ReplaceLineItems(ctx context.Context, recordID uint64, items []*costmodel.CostLineItem) error
	ListLineItems(ctx context.Context, recordID uint64) ([]*costmodel.CostLineItem, error)
	CreateComment(ctx context.Context, recordID uint64, comment *costmodel.CostComment) (uint64, error)
	UpdateComment(ctx context.Context, id uint64, comment *costmodel.CostComment) error
	DeleteComment(ctx context.Context, id uint64) error
	ListComments(ctx context.Context, recordID uint64) ([]*costmodel.CostComment, error)
	CreateAttachment(ctx context.Context, recordID uint64, attachment *costmodel.CostAttachment) (uint64, error)
	UpdateAttachment(ctx context.Context, id uint64, attachment *costmodel.CostAttachment) error
	DeleteAttachment(ctx context.Context, id uint64) error
	ListAttachments(ctx context.Context, recordID uint64) ([]*costmodel.CostAttachment, error)
}

// 编译期校验:MySQL实现满足接口
var _ Repository = (*costrepo.CostRepository)(nil)

// Service 费用管理服务
type Service struct {
	repo      Repository
	logs      *changelog.Service
	tracker   *changelog.Tracker
	editors   *draft.Registry[*EditorSession]
	maxProbes int
}

// NewService 创建费用管理服务实例
func NewService(repo Repository, logs *changelog.Service, tracker *changelog.Tracker, maxProbes int) *Service {
	return &Service{
		repo:      repo,
		logs:      logs,
		tracker:   tracker,
		editors:   draft.NewRegistry[*EditorSession](),
		maxProbes: maxProbes,
	}
}

// ListRow 列表行,No为跨页降序连续的展示行号
type ListRow struct {
	No int `json:"no"`
	*costmodel.CostRecord
}

// DetailView 详情视图
type DetailView struct {
	Record      *costmodel.CostRecord       `json:"record"`
	LineItems   []*costmodel.CostLineItem   `json:"line_items"`
	Comments    []*costmodel.CostComment    `json:"comments"`
	Attachments []*costmodel.CostAttachment `json:"attachments"`
}

// byKeyword 关键字筛选,匹配业务编号、名称或担当者
func byKeyword(keyword string) listview.Filter[*costmodel.CostRecord] {
	if keyword == "" {
		return func(*costmodel.CostRecord) bool { return true }
	}
	return func(r *costmodel.CostRecord) bool {
		return strings.Contains(r.Code, keyword) ||
			strings.Contains(r.Title, keyword) ||
			strings.Contains(r.Assignee, keyword)
	}
}

// filter 应用筛选条件并按ID降序排序,新建记录始终在最前
func (s *Service) filter(ctx context.Context, req *model.ListRequest) ([]*costmodel.CostRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost records: %w", err)
	}

	filtered := listview.Apply(records,
		listview.ByField(req.Team, func(r *costmodel.CostRecord) string { return r.Team }),
		listview.ByField(req.Status, func(r *costmodel.CostRecord) string { return r.Status }),
		listview.ByField(req.Assignee, func(r *costmodel.CostRecord) string { return r.Assignee }),
		listview.ByYear(req.Year, func(r *costmodel.CostRecord) time.Time { return r.RegistrationDate }),
		byKeyword(req.Keyword),
	)
	listview.SortBySeqDesc(filtered, func(r *costmodel.CostRecord) uint64 { return r.ID })
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
			No:         listview.RowNumber(int(total), pageIndex, req.PageSize, i),
			CostRecord: record,
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

// GetDetail 详情查询,返回父记录与全部子集合
func (s *Service) GetDetail(ctx context.Context, id uint64) (*DetailView, error) {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost record: %w", err)
	}
	if record == nil {
		return nil, errors.New("cost record not found")
	}

	view := &DetailView{Record: record}
	if view.LineItems, err = s.repo.ListLineItems(ctx, id); err != nil {
		return nil, err
	}
	if view.Comments, err = s.repo.ListComments(ctx, id); err != nil {
		return nil, err
	}
	if view.Attachments, err = s.repo.ListAttachments(ctx, id); err != nil {
		return nil, err
	}
	return view, nil
}

// ChangeStatus 状态流转,同状态为no-op,成功时追加一条变更日志
func (s *Service) ChangeStatus(ctx context.Context, id uint64, newStatus string, actor system.Actor) (bool, error) {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get cost record: %w", err)
	}
	if record == nil {
		return false, errors.New("cost record not found")
	}

	return s.tracker.Transition(ctx, ModuleName, id, record.Code, record.Status, newStatus, actor, s.repo.UpdateStatus)
}

// Delete 删除费用记录并记录审计日志
func (s *Service) Delete(ctx context.Context, id uint64, actor system.Actor) error {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get cost record: %w", err)
	}
	if record == nil {
		return errors.New("cost record not found")
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

	logger.LogBusinessOperation("cost_delete", uint(actor.UserID), actor.Name, "", "", "success", "费用记录删除成功", map[string]interface{}{
		"record_id": id,
		"code":      record.Code,
	})
	return nil
}

// History 按业务编号查询变更历史
func (s *Service) History(ctx context.Context, code string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	record, err := s.repo.GetRecordByCode(ctx, code)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get cost record: %w", err)
	}
	if record == nil {
		return nil, 0, errors.New("cost record not found")
	}
	return s.logs.ListByRecordCode(ctx, ModuleName, code, page, pageSize)
}

// formatDate 导出用日期格式化,空值输出空串
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ExportCSV 按当前筛选条件导出全量行(不分页)
// 返回文件名与带UTF-8 BOM的文件内容
func (s *Service) ExportCSV(ctx context.Context, req *model.ListRequest) (string, []byte, error) {
	req.Normalize()

	filtered, err := s.filter(ctx, req)
	if err != nil {
		return "", nil, err
	}

	header := []string{"No", "코드", "비용명", "유형", "팀", "담당자", "금액", "상태", "등록일", "시작일", "완료일"}
	rows := make([][]string, 0, len(filtered))
	total := len(filtered)
	for i, r := range filtered {
		rows = append(rows, []string{
			strconv.Itoa(listview.RowNumber(total, 0, total, i)),
			r.Code,
			r.Title,
			r.CostType,
			r.Team,
			r.Assignee,
			strconv.FormatInt(r.Amount, 10),
			r.Status,
			r.RegistrationDate.Format("2006-01-02"),
			formatDate(r.StartDate),
			formatDate(r.CompletionDate),
		})
	}

	data, err := utils.WriteCSV(header, rows)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build csv: %w", err)
	}
	return utils.CSVFileName(ExportModuleName, time.Now()), data, nil
}
