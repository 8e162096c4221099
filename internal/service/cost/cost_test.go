package cost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	costmodel "adminboard/internal/model/cost"
	"adminboard/internal/model/system"
	"adminboard/internal/service/changelog"
)

// fakeRepo 内存实现的费用仓库,用于服务层测试
type fakeRepo struct {
	nextID      uint64
	records     map[uint64]*costmodel.CostRecord
	lineItems   map[uint64][]*costmodel.CostLineItem
	comments    map[uint64]*costmodel.CostComment
	attachments map[uint64]*costmodel.CostAttachment

	failCreateComment bool
	createdComments   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:     make(map[uint64]*costmodel.CostRecord),
		lineItems:   make(map[uint64][]*costmodel.CostLineItem),
		comments:    make(map[uint64]*costmodel.CostComment),
		attachments: make(map[uint64]*costmodel.CostAttachment),
	}
}

func (f *fakeRepo) CreateRecord(ctx context.Context, record *costmodel.CostRecord) (uint64, error) {
	f.nextID++
	record.ID = f.nextID
	f.records[record.ID] = record
	return record.ID, nil
}

func (f *fakeRepo) GetRecordByID(ctx context.Context, id uint64) (*costmodel.CostRecord, error) {
	return f.records[id], nil
}

func (f *fakeRepo) GetRecordByCode(ctx context.Context, code string) (*costmodel.CostRecord, error) {
	for _, r := range f.records {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateRecord(ctx context.Context, id uint64, record *costmodel.CostRecord) error {
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

func (f *fakeRepo) ListRecords(ctx context.Context) ([]*costmodel.CostRecord, error) {
	out := make([]*costmodel.CostRecord, 0, len(f.records))
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

func (f *fakeRepo) ReplaceLineItems(ctx context.Context, recordID uint64, items []*costmodel.CostLineItem) error {
	f.lineItems[recordID] = items
	return nil
}

func (f *fakeRepo) ListLineItems(ctx context.Context, recordID uint64) ([]*costmodel.CostLineItem, error) {
	return f.lineItems[recordID], nil
}

func (f *fakeRepo) CreateComment(ctx context.Context, recordID uint64, comment *costmodel.CostComment) (uint64, error) {
	if f.failCreateComment {
		return 0, errors.New("comment insert failed")
	}
	f.nextID++
	comment.ID = f.nextID
	comment.RecordID = recordID
	f.comments[comment.ID] = comment
	f.createdComments++
	return comment.ID, nil
}

func (f *fakeRepo) UpdateComment(ctx context.Context, id uint64, comment *costmodel.CostComment) error {
	if _, ok := f.comments[id]; !ok {
		return errors.New("comment not found")
	}
	comment.ID = id
	f.comments[id] = comment
	return nil
}

func (f *fakeRepo) DeleteComment(ctx context.Context, id uint64) error {
	delete(f.comments, id)
	return nil
}

func (f *fakeRepo) ListComments(ctx context.Context, recordID uint64) ([]*costmodel.CostComment, error) {
	var out []*costmodel.CostComment
	for _, c := range f.comments {
		if c.RecordID == recordID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAttachment(ctx context.Context, recordID uint64, attachment *costmodel.CostAttachment) (uint64, error) {
	f.nextID++
	attachment.ID = f.nextID
	attachment.RecordID = recordID
	f.attachments[attachment.ID] = attachment
	return attachment.ID, nil
}

func (f *fakeRepo) UpdateAttachment(ctx context.Context, id uint64, attachment *costmodel.CostAttachment) error {
	attachment.ID = id
	f.attachments[id] = attachment
	return nil
}

func (f *fakeRepo) DeleteAttachment(ctx context.Context, id uint64) error {
	delete(f.attachments, id)
	return nil
}

func (f *fakeRepo) ListAttachments(ctx context.Context, recordID uint64) ([]*costmodel.CostAttachment, error) {
	var out []*costmodel.CostAttachment
	for _, a := range f.attachments {
		if a.RecordID == recordID {
			out = append(out, a)
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
	return system.Actor{UserID: 1, Name: "김철수", Team: "보안팀", Department: "정보보호부"}
}

func dateOf(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func seedRecord(repo *fakeRepo, code, title, team, status string) *costmodel.CostRecord {
	record := &costmodel.CostRecord{
		Code:             code,
		Title:            title,
		CostType:         "라이선스",
		Team:             team,
		Status:           status,
		RegistrationDate: time.Now(),
		StartDate:        dateOf("2026-01-05"),
		CompletionDate:   dateOf("2026-02-27"),
	}
	repo.CreateRecord(context.Background(), record)
	return record
}

func TestOpenEditorAddModeAllocatesNextCode(t *testing.T) {
	repo := newFakeRepo()
	yy := time.Now().Format("06")
	seedRecord(repo, fmt.Sprintf("COST-%s-001", yy), "기존1", "보안팀", "대기")
	seedRecord(repo, fmt.Sprintf("COST-%s-002", yy), "기존2", "보안팀", "진행")
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)
	assert.True(t, view.AddMode)
	assert.Equal(t, fmt.Sprintf("COST-%s-003", yy), view.Code)
	assert.Equal(t, view.Code, view.Parent.Code)
	assert.Equal(t, changelogmodel.StatusWaiting, view.Parent.Status)
}

func TestSaveValidationFailureIssuesNoWrites(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	// 标题缺失,保存必须在校验阶段失败且不产生任何写入
	draftRecord := &costmodel.CostRecord{CostType: "라이선스", StartDate: dateOf("2026-03-01"), CompletionDate: dateOf("2026-03-31")}
	assert.NoError(t, svc.UpdateDraft(view.SessionID, draftRecord))

	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)
	assert.Empty(t, repo.records)

	// 校验失败后草稿保留,补全字段后可再次保存
	draftRecord.Title = "백신 갱신"
	assert.NoError(t, svc.UpdateDraft(view.SessionID, draftRecord))
	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.True(t, result.Created)
}

func TestSaveCreateFlow(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	draftRecord := &costmodel.CostRecord{
		Title:          "방화벽 교체",
		CostType:       "하드웨어",
		Team:           "보안팀",
		Assignee:       "김철수",
		Amount:         12000000,
		Status:         changelogmodel.StatusWaiting,
		StartDate:      dateOf("2026-04-01"),
		CompletionDate: dateOf("2026-06-30"),
	}
	assert.NoError(t, svc.UpdateDraft(view.SessionID, draftRecord))
	assert.NoError(t, svc.SetLineItems(view.SessionID, []*costmodel.CostLineItem{
		{ItemName: "방화벽 장비", Quantity: 2, UnitPrice: 5000000, Amount: 10000000},
		{ItemName: "설치비", Quantity: 1, UnitPrice: 2000000, Amount: 2000000},
	}))
	_, err = svc.AddComment(view.SessionID, &costmodel.CostComment{Author: "김철수", Content: "견적 확인 완료"})
	assert.NoError(t, err)

	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, view.Code, result.Code)
	assert.Empty(t, result.ChildWarnings)

	// 父记录、整批明细、逐条备注全部落库
	assert.Len(t, repo.records, 1)
	assert.Len(t, repo.lineItems[result.ParentID], 2)
	assert.Equal(t, 1, repo.createdComments)

	// 创建事件审计日志
	entries, _, _ := logRepo.ListByRecordCode(context.Background(), ModuleName, result.Code, 1, 10)
	assert.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)

	// 保存成功后会话关闭
	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	assert.Error(t, err)
}

func TestSaveChildFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.failCreateComment = true
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	draftRecord := &costmodel.CostRecord{
		Title: "취약점 진단", CostType: "용역",
		StartDate: dateOf("2026-05-01"), CompletionDate: dateOf("2026-05-31"),
	}
	assert.NoError(t, svc.UpdateDraft(view.SessionID, draftRecord))
	_, err = svc.AddComment(view.SessionID, &costmodel.CostComment{Content: "실패할 댓글"})
	assert.NoError(t, err)

	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Len(t, result.ChildWarnings, 1)
	assert.Equal(t, "comments", result.ChildWarnings[0].Collection)
	assert.Equal(t, "create", result.ChildWarnings[0].Operation)
	// 父记录照常落库
	assert.Len(t, repo.records, 1)
}

func TestSaveEditModeStatusDiffLogsTransition(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)
	record := seedRecord(repo, "COST-26-001", "보안관제", "보안팀", changelogmodel.StatusWaiting)

	view, err := svc.OpenEditor(context.Background(), record.ID)
	assert.NoError(t, err)
	assert.False(t, view.AddMode)
	assert.Equal(t, "COST-26-001", view.Code)

	edited := *record
	edited.Status = changelogmodel.StatusInProgress
	assert.NoError(t, svc.UpdateDraft(view.SessionID, &edited))

	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.False(t, result.Created)

	entries, _, _ := logRepo.ListByRecordCode(context.Background(), ModuleName, "COST-26-001", 1, 10)
	assert.Len(t, entries, 1)
	assert.Equal(t, "status_change", entries[0].Action)
	assert.Equal(t, changelogmodel.StatusWaiting, entries[0].BeforeValue)
	assert.Equal(t, changelogmodel.StatusInProgress, entries[0].AfterValue)
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)
	record := seedRecord(repo, "COST-26-010", "교육비", "기획팀", changelogmodel.StatusWaiting)

	moved, err := svc.ChangeStatus(context.Background(), record.ID, changelogmodel.StatusWaiting, testActor())
	assert.NoError(t, err)
	assert.False(t, moved)
	assert.Empty(t, logRepo.entries)

	moved, err = svc.ChangeStatus(context.Background(), record.ID, changelogmodel.StatusDone, testActor())
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, changelogmodel.StatusDone, repo.records[record.ID].Status)
	assert.Len(t, logRepo.entries, 1)
}

func TestListFilterAndRowNumbers(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	seedRecord(repo, "COST-26-001", "A", "보안팀", "대기")
	seedRecord(repo, "COST-26-002", "B", "기획팀", "진행")
	seedRecord(repo, "COST-26-003", "C", "보안팀", "진행")

	// 哨兵值"전체"不过滤
	resp, err := svc.List(context.Background(), &model.ListRequest{Page: 1, PageSize: 10, Team: "전체", Status: "전체"})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	rows := resp.Data.([]*ListRow)
	// ID降序,行号降序连续
	assert.Equal(t, "COST-26-003", rows[0].Code)
	assert.Equal(t, 3, rows[0].No)
	assert.Equal(t, 1, rows[2].No)

	// 团队筛选
	resp, err = svc.List(context.Background(), &model.ListRequest{Page: 1, PageSize: 10, Team: "보안팀"})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)

	// 分页
	resp, err = svc.List(context.Background(), &model.ListRequest{Page: 2, PageSize: 2})
	assert.NoError(t, err)
	rows = resp.Data.([]*ListRow)
	assert.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].No)
	assert.True(t, resp.HasPrevious)
	assert.False(t, resp.HasNext)
}

func TestExportCSV(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	seedRecord(repo, "COST-26-001", "서울, 부산 출장비", "보안팀", "진행")

	name, data, err := svc.ExportCSV(context.Background(), &model.ListRequest{})
	assert.NoError(t, err)
	assert.Equal(t, "비용관리_"+time.Now().Format("2006-01-02")+".csv", name)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	content := string(data)
	assert.Contains(t, content, "코드")
	// 含逗号字段加引号
	assert.Contains(t, content, `"서울, 부산 출장비"`)
	assert.Contains(t, content, "COST-26-001")
}

func TestDiscardDropsDraft(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	svc.Discard(view.SessionID)
	err = svc.UpdateDraft(view.SessionID, &costmodel.CostRecord{})
	assert.Error(t, err)
	assert.Empty(t, repo.records)
}
