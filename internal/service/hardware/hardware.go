/**
 * 服务层:硬件资产管理服务
 * @description: 硬件资产台账的列表筛选、看板视图、卡片移动、详情、删除与CSV导出。
 *               看板移动先做指针手势分类，点击打开编辑器、拖拽触发状态流转
 * @func:
 * 	1.List: 列表查询(筛选+分页+行号)
 * 	2.Board: 看板视图(固定列序+列头计数)
 * 	3.MoveCard: 看板卡片移动(手势分类+状态流转)
 * 	4.GetDetail: 详情查询
 * 	5.Delete: 删除
 * 	6.ExportCSV: CSV导出
 */
package hardware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	hwmodel "adminboard/internal/model/hardware"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/listview"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/pkg/utils"
	hwrepo "adminboard/internal/repo/mysql/hardware"
	"adminboard/internal/service/changelog"
	"adminboard/internal/service/draft"
)

// ModuleName 变更日志中的模块标识
const ModuleName = "hardware"

// ExportModuleName CSV导出文件名中的模块名
const ExportModuleName = "하드웨어관리"

// Repository 硬件资产数据访问接口,由 repo/mysql/hardware 实现
type Repository interface {
	CreateRecord(ctx context.Context, asset *hwmodel.HardwareAsset) (uint64, error)
	GetRecordByID(ctx context.Context, id uint64) (*hwmodel.HardwareAsset, error)
	GetRecordByCode(ctx context.Context, code string) (*hwmodel.HardwareAsset, error)
	UpdateRecord(ctx context.Context, id uint64, asset *hwmodel.HardwareAsset) error
	DeleteRecord(ctx context.Context, id uint64) error
	ListRecords(ctx context.Context) ([]*hwmodel.HardwareAsset, error)
	ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// 编译期校验:MySQL实现满足接口
var _ Repository = (*hwrepo.HardwareRepository)(nil)

// Service 硬件资产管理服务
type Service struct {
	repo          Repository
	logs          *changelog.Service
	tracker       *changelog.Tracker
	editors       *draft.Registry[*EditorSession]
	maxProbes     int
	dragThreshold float64
}

// NewService 创建硬件资产管理服务实例
// dragThreshold为看板点击/拖拽判定的位移阈值(像素)
func NewService(repo Repository, logs *changelog.Service, tracker *changelog.Tracker, maxProbes int, dragThreshold float64) *Service {
	return &Service{
		repo:          repo,
		logs:          logs,
		tracker:       tracker,
		editors:       draft.NewRegistry[*EditorSession](),
		maxProbes:     maxProbes,
		dragThreshold: dragThreshold,
	}
}

// ListRow 列表行,No为跨页降序连续的展示行号
type ListRow struct {
	No int `json:"no"`
	*hwmodel.HardwareAsset
}

// BoardColumn 看板单列,列序固定为状态枚举顺序
type BoardColumn struct {
	Status string                   `json:"status"`
	Count  int64                    `json:"count"`
	Cards  []*hwmodel.HardwareAsset `json:"cards"`
}

// BoardView 看板视图
type BoardView struct {
	Columns []*BoardColumn `json:"columns"`
}

// MoveResult 看板卡片移动结果
// OpenEditor为真表示位移未达阈值,按点击处理,不发生任何移动;
// Moved为真表示卡片已移入目标列并产生变更日志
type MoveResult struct {
	OpenEditor bool   `json:"open_editor"`
	Moved      bool   `json:"moved"`
	Status     string `json:"status"`
}

// byKeyword 关键字筛选,匹配业务编号、资产名称、型号或序列号
func byKeyword(keyword string) listview.Filter[*hwmodel.HardwareAsset] {
	if keyword == "" {
		return func(*hwmodel.HardwareAsset) bool { return true }
	}
	return func(a *hwmodel.HardwareAsset) bool {
		return strings.Contains(a.Code, keyword) ||
			strings.Contains(a.Name, keyword) ||
			strings.Contains(a.ModelName, keyword) ||
			strings.Contains(a.SerialNumber, keyword)
	}
}

// filter 应用筛选条件并按ID降序排序
func (s *Service) filter(ctx context.Context, req *model.ListRequest) ([]*hwmodel.HardwareAsset, error) {
	assets, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hardware assets: %w", err)
	}

	filtered := listview.Apply(assets,
		listview.ByField(req.Team, func(a *hwmodel.HardwareAsset) string { return a.Team }),
		listview.ByField(req.Status, func(a *hwmodel.HardwareAsset) string { return a.Status }),
		listview.ByField(req.Assignee, func(a *hwmodel.HardwareAsset) string { return a.Owner }),
		listview.ByYear(req.Year, func(a *hwmodel.HardwareAsset) time.Time { return a.RegistrationDate }),
		byKeyword(req.Keyword),
	)
	listview.SortBySeqDesc(filtered, func(a *hwmodel.HardwareAsset) uint64 { return a.ID })
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
	for i, asset := range pageItems {
		rows = append(rows, &ListRow{
			No:            listview.RowNumber(int(total), pageIndex, req.PageSize, i),
			HardwareAsset: asset,
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

// Board 看板视图
// 列按状态枚举固定顺序排列,空列也保留;列头计数来自全量统计,
// 卡片受当前筛选条件约束
func (s *Service) Board(ctx context.Context, req *model.ListRequest) (*BoardView, error) {
	// 看板不分状态筛选:每一列就是一个状态
	req.Status = listview.FilterAll
	filtered, err := s.filter(ctx, req)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets by status: %w", err)
	}

	byStatus := make(map[string][]*hwmodel.HardwareAsset)
	for _, asset := range filtered {
		byStatus[asset.Status] = append(byStatus[asset.Status], asset)
	}

	view := &BoardView{}
	for _, status := range changelogmodel.AllStatuses() {
		cards := byStatus[status]
		if cards == nil {
			cards = []*hwmodel.HardwareAsset{}
		}
		view.Columns = append(view.Columns, &BoardColumn{
			Status: status,
			Count:  counts[status],
			Cards:  cards,
		})
	}
	return view, nil
}

// MoveCard 看板卡片移动
// 先按指针位移做手势分类:低于阈值按点击处理(打开编辑器,不移动);
// 达到阈值按拖拽处理,拖回原列为no-op,跨列移动产生一条变更日志
func (s *Service) MoveCard(ctx context.Context, id uint64, targetStatus string, dx, dy float64, actor system.Actor) (*MoveResult, error) {
	asset, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hardware asset: %w", err)
	}
	if asset == nil {
		return nil, errors.New("hardware asset not found")
	}

	if changelog.ClassifyPointerGesture(dx, dy, s.dragThreshold) == changelog.GestureClick {
		return &MoveResult{OpenEditor: true, Status: asset.Status}, nil
	}

	moved, err := s.tracker.MoveCard(ctx, ModuleName, id, asset.Code, asset.Status, targetStatus, actor, s.repo.UpdateStatus)
	if err != nil {
		return nil, err
	}
	if !moved {
		return &MoveResult{Status: asset.Status}, nil
	}

	logger.LogBusinessOperation("hardware_move_card", uint(actor.UserID), actor.Name, "", "", "success", "看板卡片移动成功", map[string]interface{}{
		"record_id": id,
		"code":      asset.Code,
		"from":      asset.Status,
		"to":        targetStatus,
	})
	return &MoveResult{Moved: true, Status: targetStatus}, nil
}

// GetDetail 详情查询
func (s *Service) GetDetail(ctx context.Context, id uint64) (*hwmodel.HardwareAsset, error) {
	asset, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hardware asset: %w", err)
	}
	if asset == nil {
		return nil, errors.New("hardware asset not found")
	}
	return asset, nil
}

// ChangeStatus 对话框内状态流转,同状态为no-op
func (s *Service) ChangeStatus(ctx context.Context, id uint64, newStatus string, actor system.Actor) (bool, error) {
	asset, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get hardware asset: %w", err)
	}
	if asset == nil {
		return false, errors.New("hardware asset not found")
	}

	return s.tracker.Transition(ctx, ModuleName, id, asset.Code, asset.Status, newStatus, actor, s.repo.UpdateStatus)
}

// Delete 删除硬件资产并记录审计日志
func (s *Service) Delete(ctx context.Context, id uint64, actor system.Actor) error {
	asset, err := s.repo.GetRecordByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get hardware asset: %w", err)
	}
	if asset == nil {
		return errors.New("hardware asset not found")
	}

	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return err
	}

	s.logs.Append(ctx, &changelogmodel.ChangeLogEntry{
		Module:      ModuleName,
		RecordCode:  asset.Code,
		Action:      "delete",
		Description: asset.Code + " 삭제",
		ActorName:   actor.Name,
		ActorTeam:   actor.Team,
		ActorDept:   actor.Department,
	})

	logger.LogBusinessOperation("hardware_delete", uint(actor.UserID), actor.Name, "", "", "success", "硬件资产删除成功", map[string]interface{}{
		"record_id": id,
		"code":      asset.Code,
	})
	return nil
}

// History 按业务编号查询变更历史
func (s *Service) History(ctx context.Context, code string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	asset, err := s.repo.GetRecordByCode(ctx, code)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get hardware asset: %w", err)
	}
	if asset == nil {
		return nil, 0, errors.New("hardware asset not found")
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

	header := []string{"No", "코드", "자산명", "모델명", "시리얼번호", "보유자", "팀", "위치", "상태", "등록일", "구입일"}
	rows := make([][]string, 0, len(filtered))
	total := len(filtered)
	for i, a := range filtered {
		rows = append(rows, []string{
			strconv.Itoa(listview.RowNumber(total, 0, total, i)),
			a.Code,
			a.Name,
			a.ModelName,
			a.SerialNumber,
			a.Owner,
			a.Team,
			a.Location,
			a.Status,
			a.RegistrationDate.Format("2006-01-02"),
			formatDate(a.PurchaseDate),
		})
	}

	data, err := utils.WriteCSV(header, rows)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build csv: %w", err)
	}
	return utils.CSVFileName(ExportModuleName, time.Now()), data, nil
}
