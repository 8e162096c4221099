/**
 * 服务层:协力公司保安监查服务
 * @description: 监查记录的列表筛选、详情、状态流转、删除与变更历史查询
 * @func:
 * 	1.List: 列表查询(筛选+分页+行号)
 * 	2.GetDetail: 详情查询
 * 	3.ChangeStatus: 状态流转
 * 	4.Delete: 删除
 * 	5.History: 变更历史
 */
package partner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	partnermodel "adminboard/internal/model/partner"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/listview"
	"adminboard/internal/pkg/logger"
	partnerrepo "adminboard/internal/repo/mysql/partner"
	"adminboard/internal/service/changelog"
	"adminboard/internal/service/draft"
)

// ModuleName 变更日志中的模块标识
const ModuleName = "partner"

// Repository 监查数据访问接口,由 repo/mysql/partner 实现
type Repository interface {
	CreateRecord(ctx context.Context, record *partnermodel.PartnerAudit) (uint64, error)
	GetRecordByID(ctx context.Context, id uint64) (*partnermodel.PartnerAudit, error)
	GetRecordByCode(ctx context.Context, code string) (*partnermodel.PartnerAudit, error)
	UpdateRecord(ctx context.Context, id uint64, record *partnermodel.PartnerAudit) error
	DeleteRecord(ctx context.Context, id uint64) error
	ListRecords(ctx context.Context) ([]*partnermodel.PartnerAudit, error)
	ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	ListEvaluations(ctx context.Context, recordID uint64) ([]*partnermodel.ChecklistEvaluation, error)
	ReplaceEvaluations(ctx context.Context, recordID uint64, evaluations []*partnermodel.ChecklistEvaluation) error
	CreateOPLItem(ctx context.Context, recordID uint64, item *partnermodel.OPLItem) (uint64, error)
	UpdateOPLItem(ctx context.Context, id uint64, item *partnermodel.OPLItem) error
	DeleteOPLItem(ctx context.Context, id uint64) error
	ListOPLItems(ctx context.Context, recordID uint64) ([]*partnermodel.OPLItem, error)
	ListOPLCodes(ctx context.Context, recordID uint64) ([]string, error)
}

// 编译期校验:MySQL实现满足接口
var _ Repository = (*partnerrepo.PartnerAuditRepository)(nil)

// Service 协力公司保安监查服务
type Service struct {
	repo      Repository
	logs      *changelog.Service
	tracker   *changelog.Tracker
	editors   *draft.Registry[*EditorSession]
	maxProbes int
}

// NewService 创建监查服务实例
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
	*partnermodel.PartnerAudit
}

// DetailView 详情视图
type DetailView struct {
	Record      *partnermodel.PartnerAudit          `json:"record"`
	Evaluations []*partnermodel.ChecklistEvaluation `json:"evaluations"`
	OPLItems    []*partnermodel.OPLItem             `json:"opl_items"`
}

// byKeyword 关键字筛选,匹配业务编号、协力公司或担当者
func byKeyword(keyword string) listview.Filter[*partnermodel.PartnerAudit] {
	if keyword == "" {
		return func(*partnermodel.PartnerAudit) bool { return true }
	}
	return func(r *partnermodel.PartnerAudit) bool {
		return strings.Contains(r.Code, keyword) ||
			strings.Contains(r.PartnerCompany, keyword) ||
			strings.Contains(r.Auditor, keyword)
	}
}

// filter 应用筛选条件并按ID降序排序
func (s *Service) filter(ctx context.Context, req *model.ListRequest) ([]*partnermodel.PartnerAudit, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list partner audits: %w", err)
	}

	filtered := listview.Apply(records,
		listview.ByField(req.Team, func(r *partnermodel.PartnerAudit) string { return r.Team }),
		listview.ByField(req.Status, func(r *partnermodel.PartnerAudit) string { return r.Status }),
		listview.ByField(req.Assignee, func(r *partnermodel.PartnerAudit) string { return r.Auditor }),
		listview.ByYear(req.Year, func(r *partnermodel.PartnerAudit) time.Time {
			if r.AuditDate == nil {
				return time.Time{}
			}
			return *r.AuditDate
		}),
		byKeyword(req.Keyword),
	)
	listview.SortBySeqDesc(filtered, func(r *partnermodel.PartnerAudit) uint64 { return r.ID })
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
			No:           listview.RowNumber(int(total), pageIndex, req.PageSize, i),
			PartnerAudit: record,
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
		return nil, fmt.Errorf("failed to get partner audit: %w", err)
	}
	if record == nil {
		return nil, errors.New("partner audit not found")
	}

	view := &DetailView{Record: record}
	if view.Evaluations, err = s.repo.ListEvaluations(ctx, id); err != nil {
		return nil, err
	}
	if view.OPLItems, err = s.repo.ListOPLItems(ctx, id); err != nil {
		return nil, err
	}
	return view, nil
}

// ChangeStatus 状态流转
func (s *Service) ChangeStatus(ctx context.Context, id uint64, newStatus string, actor system.Actor) (bool, error) {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get partner audit: %w", err)
	}
	if record == nil {
		return false, errors.New("partner audit not found")
	}

	return s.tracker.Transition(ctx, ModuleName, id, record.Code, record.Status, newStatus, actor, s.repo.UpdateStatus)
}

// Delete 删除监查记录并记录审计日志
func (s *Service) Delete(ctx context.Context, id uint64, actor system.Actor) error {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get partner audit: %w", err)
	}
	if record == nil {
		return errors.New("partner audit not found")
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

	logger.LogBusinessOperation("partner_audit_delete", uint(actor.UserID), actor.Name, "", "", "success", "监查记录删除成功", map[string]interface{}{
		"record_id": id,
		"code":      record.Code,
	})
	return nil
}

// History 按业务编号查询变更历史
func (s *Service) History(ctx context.Context, code string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	record, err := s.repo.GetRecordByCode(ctx, code)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get partner audit: %w", err)
	}
	if record == nil {
		return nil, 0, errors.New("partner audit not found")
	}
	return s.logs.ListByRecordCode(ctx, ModuleName, code, page, pageSize)
}
