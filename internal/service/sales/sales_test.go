package sales

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	salesmodel "adminboard/internal/model/sales"
	"adminboard/internal/model/system"
	"adminboard/internal/service/changelog"
)

// fakeRepo 内存实现的销售仓库,用于服务层测试
type fakeRepo struct {
	nextID  uint64
	records map[uint64]*salesmodel.SalesRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[uint64]*salesmodel.SalesRecord)}
}

func (f *fakeRepo) CreateRecord(ctx context.Context, record *salesmodel.SalesRecord) (uint64, error) {
	f.nextID++
	record.ID = f.nextID
	f.records[record.ID] = record
	return record.ID, nil
}

func (f *fakeRepo) GetRecordByID(ctx context.Context, id uint64) (*salesmodel.SalesRecord, error) {
	return f.records[id], nil
}

func (f *fakeRepo) GetRecordByCode(ctx context.Context, code string) (*salesmodel.SalesRecord, error) {
	for _, r := range f.records {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateRecord(ctx context.Context, id uint64, record *salesmodel.SalesRecord) error {
	existing, ok := f.records[id]
	if !ok {
		return errors.New("record not found")
	}
	record.ID = id
	record.Code = existing.Code
	f.records[id] = record
	return nil
}

func (f *fakeRepo) DeleteRecord(ctx context.Context, id uint64) error {
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) ListRecords(ctx context.Context) ([]*salesmodel.SalesRecord, error) {
	out := make([]*salesmodel.SalesRecord, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRepo) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for _, r := range f.records {
		if strings.HasPrefix(r.Code, prefix+"-") {
			out = append(out, r.Code)
		}
	}
	return out, nil
}

func (f *fakeRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r, _ := f.GetRecordByCode(ctx, code)
	return r != nil, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	r, ok := f.records[id]
	if !ok {
		return errors.New("record not found")
	}
	r.Status = status
	return nil
}

func (f *fakeRepo) SummarizeByMonth(ctx context.Context, year int) ([]*salesmodel.MonthlySummary, error) {
	byMonth := make(map[int]*salesmodel.MonthlySummary)
	for _, r := range f.records {
		if r.SaleDate == nil || r.SaleDate.Year() != year {
			continue
		}
		month := int(r.SaleDate.Month())
		sum, ok := byMonth[month]
		if !ok {
			sum = &salesmodel.MonthlySummary{Year: year, Month: month}
			byMonth[month] = sum
		}
		sum.TotalAmount += r.Amount
		sum.TotalMargin += r.Margin
		sum.Count++
	}
	var out []*salesmodel.MonthlySummary
	for month := 1; month <= 12; month++ {
		if sum, ok := byMonth[month]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}

// fakeLogRepo 内存变更日志仓库
type fakeLogRepo struct {
	entries []*changelogmodel.ChangeLogEntry
}

func (f *fakeLogRepo) Append(ctx context.Context, entry *changelogmodel.ChangeLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeLogRepo) ListByRecordCode(ctx context.Context, module, recordCode string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	var out []*changelogmodel.ChangeLogEntry
	for _, e := range f.entries {
		if e.Module == module && e.RecordCode == recordCode {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeLogRepo) ListByModule(ctx context.Context, module string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

func newTestService(repo *fakeRepo, logRepo *fakeLogRepo) *Service {
	logs := changelog.NewService(logRepo)
	return NewService(repo, logs, changelog.NewTracker(logs), 10)
}

func testActor() system.Actor {
	return system.Actor{UserID: 1, Name: "김철수", Team: "영업팀", Department: "영업본부"}
}

func dateOf(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func seedRecord(repo *fakeRepo, code, client string, amount, margin int64, saleDate string) *salesmodel.SalesRecord {
	record := &salesmodel.SalesRecord{
		Code:             code,
		Client:           client,
		Item:             "보안 솔루션",
		Team:             "영업팀",
		Amount:           amount,
		Margin:           margin,
		Status:           changelogmodel.StatusWaiting,
		RegistrationDate: time.Now(),
		SaleDate:         dateOf(saleDate),
	}
	repo.CreateRecord(context.Background(), record)
	return record
}

func TestMonthlyReportFillsEmptyMonths(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	seedRecord(repo, "SALES-26-001", "A사", 1000, 100, "2026-01-15")
	seedRecord(repo, "SALES-26-002", "B사", 2000, 300, "2026-01-20")
	seedRecord(repo, "SALES-26-003", "C사", 5000, 800, "2026-03-05")
	// 他年度数据不计入
	seedRecord(repo, "SALES-25-001", "D사", 9000, 900, "2025-06-01")

	report, err := svc.MonthlyReport(context.Background(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, 2026, report.Year)
	assert.Len(t, report.Months, 12)

	jan := report.Months[0]
	assert.Equal(t, 1, jan.Month)
	assert.Equal(t, int64(3000), jan.TotalAmount)
	assert.Equal(t, int64(400), jan.TotalMargin)
	assert.Equal(t, 2, jan.Count)

	// 空月份补零
	feb := report.Months[1]
	assert.Equal(t, 2, feb.Month)
	assert.Equal(t, int64(0), feb.TotalAmount)
	assert.Equal(t, 0, feb.Count)

	assert.Equal(t, int64(8000), report.TotalAmount)
	assert.Equal(t, int64(1100), report.TotalMargin)
	assert.Equal(t, 3, report.TotalCount)
}

func TestSaveValidationRequiresClientAndSaleDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)
	assert.True(t, view.AddMode)

	assert.NoError(t, svc.UpdateDraft(view.SessionID, &salesmodel.SalesRecord{Item: "보안 솔루션"}))
	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "client", ve.Field)
	assert.Empty(t, repo.records)

	assert.NoError(t, svc.UpdateDraft(view.SessionID, &salesmodel.SalesRecord{Client: "A사", Item: "보안 솔루션"}))
	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "sale_date", ve.Field)

	assert.NoError(t, svc.UpdateDraft(view.SessionID, &salesmodel.SalesRecord{
		Client: "A사", Item: "보안 솔루션", Status: changelogmodel.StatusWaiting, SaleDate: dateOf("2026-07-01"),
	}))
	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, view.Code, repo.records[result.ParentID].Code)
}

func TestChangeStatusLogsTransition(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)
	record := seedRecord(repo, "SALES-26-010", "A사", 1000, 100, "2026-02-10")

	moved, err := svc.ChangeStatus(context.Background(), record.ID, changelogmodel.StatusWaiting, testActor())
	assert.NoError(t, err)
	assert.False(t, moved)
	assert.Empty(t, logRepo.entries)

	moved, err = svc.ChangeStatus(context.Background(), record.ID, changelogmodel.StatusDone, testActor())
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, changelogmodel.StatusDone, repo.records[record.ID].Status)
	assert.Len(t, logRepo.entries, 1)
	assert.Equal(t, "status_change", logRepo.entries[0].Action)
}

func TestExportCSVIncludesMarginColumn(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	seedRecord(repo, "SALES-26-001", "A사", 12000000, 3400000, "2026-04-01")

	name, data, err := svc.ExportCSV(context.Background(), &model.ListRequest{})
	assert.NoError(t, err)
	assert.Equal(t, "매출관리_"+time.Now().Format("2006-01-02")+".csv", name)

	content := string(data)
	assert.Contains(t, content, "이익")
	assert.Contains(t, content, "3400000")
	assert.Contains(t, content, "SALES-26-001")
}
