package inspection

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	inspmodel "adminboard/internal/model/inspection"
	"adminboard/internal/model/system"
	"adminboard/internal/service/changelog"
)

// fakeRepo 内存实现的点检仓库
type fakeRepo struct {
	nextID      uint64
	records     map[uint64]*inspmodel.Inspection
	evaluations map[uint64][]*inspmodel.ChecklistEvaluation
	oplItems    map[uint64]*inspmodel.OPLItem
	// 软删除行残留的OPL编号,仍占用序号
	retiredOPLCodes map[uint64][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:         make(map[uint64]*inspmodel.Inspection),
		evaluations:     make(map[uint64][]*inspmodel.ChecklistEvaluation),
		oplItems:        make(map[uint64]*inspmodel.OPLItem),
		retiredOPLCodes: make(map[uint64][]string),
	}
}

func (f *fakeRepo) CreateRecord(ctx context.Context, record *inspmodel.Inspection) (uint64, error) {
	f.nextID++
	record.ID = f.nextID
	f.records[record.ID] = record
	return record.ID, nil
}

func (f *fakeRepo) GetRecordByID(ctx context.Context, id uint64) (*inspmodel.Inspection, error) {
	return f.records[id], nil
}

func (f *fakeRepo) GetRecordByCode(ctx context.Context, code string) (*inspmodel.Inspection, error) {
	for _, r := range f.records {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateRecord(ctx context.Context, id uint64, record *inspmodel.Inspection) error {
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

func (f *fakeRepo) ListRecords(ctx context.Context) ([]*inspmodel.Inspection, error) {
	out := make([]*inspmodel.Inspection, 0, len(f.records))
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

func (f *fakeRepo) ListEvaluations(ctx context.Context, recordID uint64) ([]*inspmodel.ChecklistEvaluation, error) {
	return f.evaluations[recordID], nil
}

func (f *fakeRepo) ReplaceEvaluations(ctx context.Context, recordID uint64, evaluations []*inspmodel.ChecklistEvaluation) error {
	f.evaluations[recordID] = evaluations
	return nil
}

func (f *fakeRepo) CreateOPLItem(ctx context.Context, recordID uint64, item *inspmodel.OPLItem) (uint64, error) {
	f.nextID++
	item.ID = f.nextID
	item.RecordID = recordID
	f.oplItems[item.ID] = item
	return item.ID, nil
}

func (f *fakeRepo) UpdateOPLItem(ctx context.Context, id uint64, item *inspmodel.OPLItem) error {
	existing, ok := f.oplItems[id]
	if !ok {
		return errors.New("opl item not found")
	}
	item.ID = id
	item.Code = existing.Code
	f.oplItems[id] = item
	return nil
}

func (f *fakeRepo) DeleteOPLItem(ctx context.Context, id uint64) error {
	item, ok := f.oplItems[id]
	if ok {
		f.retiredOPLCodes[item.RecordID] = append(f.retiredOPLCodes[item.RecordID], item.Code)
	}
	delete(f.oplItems, id)
	return nil
}

func (f *fakeRepo) ListOPLItems(ctx context.Context, recordID uint64) ([]*inspmodel.OPLItem, error) {
	var out []*inspmodel.OPLItem
	for _, item := range f.oplItems {
		if item.RecordID == recordID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOPLCodes(ctx context.Context, recordID uint64) ([]string, error) {
	var out []string
	for _, item := range f.oplItems {
		if item.RecordID == recordID {
			out = append(out, item.Code)
		}
	}
	out = append(out, f.retiredOPLCodes[recordID]...)
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
	return system.Actor{UserID: 2, Name: "이영희", Team: "보안팀", Department: "정보보호부"}
}

func dateOf(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func seedInspection(repo *fakeRepo, code, customer string) *inspmodel.Inspection {
	record := &inspmodel.Inspection{
		Code:             code,
		Customer:         customer,
		Inspector:        "이영희",
		Team:             "보안팀",
		Round:            1,
		Status:           changelogmodel.StatusWaiting,
		RegistrationDate: time.Now(),
		InspectionDate:   dateOf("2026-03-10"),
	}
	repo.CreateRecord(context.Background(), record)
	return record
}

func TestAddOPLItemAllocatesChildCodes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	record := seedInspection(repo, "INSP-26-001", "한빛은행")

	// 既有一条OPL,编号-01
	repo.CreateOPLItem(context.Background(), record.ID, &inspmodel.OPLItem{Code: "INSP-26-001-01", Content: "기존 항목"})

	view, err := svc.OpenEditor(context.Background(), record.ID)
	assert.NoError(t, err)

	item1 := &inspmodel.OPLItem{Content: "방화벽 정책 정비", Owner: "이영희"}
	_, err = svc.AddOPLItem(view.SessionID, item1)
	assert.NoError(t, err)
	assert.Equal(t, "INSP-26-001-02", item1.Code)

	// 同一会话内连续新增,编号不重复
	item2 := &inspmodel.OPLItem{Content: "패치 적용", Owner: "김철수"}
	ref2, err := svc.AddOPLItem(view.SessionID, item2)
	assert.NoError(t, err)
	assert.Equal(t, "INSP-26-001-03", item2.Code)

	// 保存前移除的条目不回收编号
	assert.NoError(t, svc.RemoveOPLItem(view.SessionID, ref2))
	item3 := &inspmodel.OPLItem{Content: "계정 점검"}
	_, err = svc.AddOPLItem(view.SessionID, item3)
	assert.NoError(t, err)
	assert.Equal(t, "INSP-26-001-04", item3.Code)

	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.Empty(t, result.ChildWarnings)

	// 落库的是-02与-04,被移除的-03不产生任何调用
	items, _ := repo.ListOPLItems(context.Background(), record.ID)
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.Code)
	}
	assert.Len(t, codes, 3)
	assert.Contains(t, codes, "INSP-26-001-02")
	assert.Contains(t, codes, "INSP-26-001-04")
	assert.NotContains(t, codes, "INSP-26-001-03")
}

func TestOPLCodesSkipRetiredRows(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	record := seedInspection(repo, "INSP-26-002", "누리증권")

	// -01 已被删除但编号仍占用
	id, _ := repo.CreateOPLItem(context.Background(), record.ID, &inspmodel.OPLItem{Code: "INSP-26-002-01"})
	repo.DeleteOPLItem(context.Background(), id)

	view, err := svc.OpenEditor(context.Background(), record.ID)
	assert.NoError(t, err)

	item := &inspmodel.OPLItem{Content: "로그 보존 기간 연장"}
	_, err = svc.AddOPLItem(view.SessionID, item)
	assert.NoError(t, err)
	assert.Equal(t, "INSP-26-002-02", item.Code)
}

func TestSaveEvaluationsBulkReplace(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	record := seedInspection(repo, "INSP-26-003", "세종카드")
	repo.ReplaceEvaluations(context.Background(), record.ID, []*inspmodel.ChecklistEvaluation{
		{ItemCode: "AC-01", ItemName: "계정 관리", Result: "적합"},
	})

	view, err := svc.OpenEditor(context.Background(), record.ID)
	assert.NoError(t, err)
	assert.Len(t, view.Evaluations, 1)

	assert.NoError(t, svc.SetEvaluations(view.SessionID, []*inspmodel.ChecklistEvaluation{
		{ItemCode: "AC-01", ItemName: "계정 관리", Result: "부적합", Severity: "상"},
		{ItemCode: "NW-02", ItemName: "망 분리", Result: "적합"},
	}))

	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)

	evaluations, _ := repo.ListEvaluations(context.Background(), record.ID)
	assert.Len(t, evaluations, 2)
	assert.Equal(t, "부적합", evaluations[0].Result)
}

func TestValidationRequiresCustomerAndDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)
	assert.True(t, view.AddMode)

	assert.NoError(t, svc.UpdateDraft(view.SessionID, &inspmodel.Inspection{InspectionDate: dateOf("2026-04-01")}))
	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "customer", ve.Field)
	assert.Empty(t, repo.records)
}
