/**
 * 服务层:销售管理服务
 * @description: 销售记录的列表筛选、详情、月度汇总、状态流转、删除与CSV导出。
 *               月度汇总补齐空月份,十二个月完整输出
 * @func:
 * 	1.List: 列表查询(筛选+分页+行号)
 * 	2.GetDetail: 详情查询
 * 	3.MonthlyReport: 月度汇总报表
 * 	4.ChangeStatus: 状态流转
 * 	5.Delete: 删除
 * 	6.ExportCSV: CSV导出
 */
package sales

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	salesmodel "adminboard/internal/model/sales"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/listview"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/pkg/utils"
	salesrepo "adminboard/internal/repo/mysql/sales"
	"adminboard/internal/service/changelog"
	"adminboard/internal/service/draft"
)

// ModuleName 变更日志中的模块标识
const ModuleName = "sales"

// ExportModuleName CSV导出文件名中的模块名
const ExportModuleName = "매출관리"

// Repository 销售数据访问接口,由 repo/mysql/sales 实现
type Repository interface {
	CreateRecord(ctx context.Context, record *salesmodel.SalesRecord) (uint64, error)
	GetRecordByID(ctx context.Context, id uint64) (*salesmodel.SalesRecord, error)
	GetRecordByCode(ctx context.Context, code string) (*salesmodel.SalesRecord, error)
	UpdateRecord(ctx context.Context, id uint64, record *salesmodel.SalesRecord) error
	DeleteRecord(ctx context.Context, id uint64) error
	ListRecords(ctx context.Context) ([]*salesmodel.SalesRecord, error)
	ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	SummarizeByMonth(ctx context.Context, year int) ([]*salesmodel.MonthlySummary, error)
}

// 编译期校验:MySQL实现满足接口
var _ Repository = (*salesrepo.SalesRepository)(nil)

// Service 销售管理服务
type Service struct {
	repo      Repository
	logs      *changelog.Service
	tracker   *changelog.Tracker
	editors   *draft.Registry[*EditorSession]
	maxProbes int
}

// NewService 创建销售管理服务实例
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
	*salesmodel.SalesRecord
}

// MonthlyReport 年度月报,十二个月逐月补齐
type MonthlyReport struct {
	Year        int                          `json:"year"`
	Months      []*salesmodel.MonthlySummary `json:"months"`
	TotalAmount int64                        `json:"total_amount"`
	TotalMargin int64                        `json:"total_margin"`
	TotalCount  int                          `json:"total_count"`
}

// byKeyword 关键字筛选,匹配业务编号、客户或销售项目
func byKeyword(keyword string) listview.Filter[*salesmodel.SalesRecord] {
	if keyword == "" {
		return func(*salesmodel.SalesRecord) bool { return true }
	}
	return func(r *salesmodel.SalesRecord) bool {
		return strings.Contains(r.Code, keyword) ||
			strings.Contains(r.Client, keyword) ||
			strings.Contains(r.Item, keyword)
	}
}

// filter 应用筛选条件并按ID降序排序
func (s *Service) filter(ctx context.Context, req *model.ListRequest) ([]*salesmodel.SalesRecord, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales records: %w", err)
	}

	filtered := listview.Apply(records,
		listview.ByField(req.Team, func(r *salesmodel.SalesRecord) string { return r.Team }),
		listview.ByField(req.Status, func(r *salesmodel.SalesRecord) string { return r.Status }),
		listview.ByField(req.Assignee, func(r *salesmodel.SalesRecord) string { return r.Assignee }),
		listview.ByYear(req.Year, func(r *salesmodel.SalesRecord) time.Time { return r.RegistrationDate }),
		byKeyword(req.Keyword),
	)
	listview.SortBySeqDesc(filtered, func(r *salesmodel.SalesRecord) uint64 { return r.ID })
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
			No:          listview.RowNumber(int(total), pageIndex, req.PageSize, i),
			SalesRecord: record,
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
func (s *Service) GetDetail(ctx context.Context, id uint64) (*salesmodel.SalesRecord, error) {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales record: %w", err)
	}
	if record == nil {
		return nil, errors.New("sales record not found")
	}
	return record, nil
}

// MonthlyReport 年度月报,按销售日所在日历月汇总
// 无数据的月份补零行,保证十二个月完整输出
func (s *Service) MonthlyReport(ctx context.Context, year int) (*MonthlyReport, error) {
	if year <= 0 {
		year = time.Now().Year()
	}

	summaries, err := s.repo.SummarizeByMonth(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize sales by month: %w", err)
	}

	byMonth := make(map[int]*salesmodel.MonthlySummary, len(summaries))
	for _, sum := range summaries {
		byMonth[sum.Month] = sum
	}

	report := &MonthlyReport{Year: year}
	for month := 1; month <= 12; month++ {
		sum, ok := byMonth[month]
		if !ok {
			sum = &salesmodel.MonthlySummary{Year: year, Month: month}
		}
		report.Months = append(report.Months, sum)
		report.TotalAmount += sum.TotalAmount
		report.TotalMargin += sum.TotalMargin
		report.TotalCount += sum.Count
	}
	return report, nil
}

// ChangeStatus 状态流转,同状态为no-op,成功时追加一条变更日志
func (s *Service) ChangeStatus(ctx context.Context, id uint64, newStatus string, actor system.Actor) (bool, error) {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get sales record: %w", err)
	}
	if record == nil {
		return false, errors.New("sales record not found")
	}

	return s.tracker.Transition(ctx, ModuleName, id, record.Code, record.Status, newStatus, actor, s.repo.UpdateStatus)
}

// Delete 删除销售记录并记录审计日志
func (s *Service) Delete(ctx context.Context, id uint64, actor system.Actor) error {
	record, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get sales record: %w", err)
	}
	if record == nil {
		return errors.New("sales record not found")
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

	logger.LogBusinessOperation("sales_delete", uint(actor.UserID), actor.Name, "", "", "success", "销售记录删除成功", map[string]interface{}{
		"record_id": id,
		"code":      record.Code,
	})
	return nil
}

// History 按业务编号查询变更历史
func (s *Service) History(ctx context.Context, code string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	record, err := s.repo.GetRecordByCode(ctx, code)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get sales record: %w", err)
	}
	if record == nil {
		return nil, 0, errors.New("sales record not found")
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

	header := []string{"No", "코드", "고객사", "판매항목", "팀", "담당자", "매출액", "이익", "상태", "등록일", "판매일"}
	rows := make([][]string, 0, len(filtered))
	total := len(filtered)
	for i, r := range filtered {
		rows = append(rows, []string{
			strconv.Itoa(listview.RowNumber(total, 0, total, i)),
			r.Code,
			r.Client,
			r.Item,
			r.Team,
			r.Assignee,
			strconv.FormatInt(r.Amount, 10),
			strconv.FormatInt(r.Margin, 10),
			r.Status,
			r.RegistrationDate.Format("2006-01-02"),
			formatDate(r.SaleDate),
		})
	}

	data, err := utils.WriteCSV(header, rows)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build csv: %w", err)
	}
	return utils.CSVFileName(ExportModuleName, time.Now()), data, nil
}
