package partner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	partnermodel "adminboard/internal/model/partner"
	"adminboard/internal/model/system"
	"adminboard/internal/service/changelog"
)

// fakeRepo 内存实现的监查仓库
type fakeRepo struct {
	nextID      uint64
	records     map[uint64]*partnermodel.PartnerAudit
	evaluations map[uint64][]*partnermodel.ChecklistEvaluation
	oplItems    map[uint64]*partnermodel.OPLItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:     make(map[uint64]*partnermodel.PartnerAudit),
		evaluations: make(map[uint64][]*partnermodel.ChecklistEvaluation),
		oplItems:    make(map[uint64]*partnermodel.OPLItem),
	}
}

func (f *fakeRepo) CreateRecord(ctx context.Context, record *partnermodel.PartnerAudit) (uint64, error) {
	f.nextID++
	record.ID = f.nextID
	f.records[record.ID] = record
	return record.ID, nil
}

func (f *fakeRepo) GetRecordByID(ctx context.Context, id uint64) (*partnermodel.PartnerAudit, error) {
	return f.records[id], nil
}

func (f *fakeRepo) GetRecordByCode(ctx context.Context, code string) (*partnermodel.PartnerAudit, error) {
	for _, r := range f.records {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateRecord(ctx context.Context, id uint64, record *partnermodel.PartnerAudit) error {
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

func (f *fakeRepo) ListRecords(ctx context.Context) ([]*partnermodel.PartnerAudit, error) {
	out := make([]*partnermodel.PartnerAudit, 0, len(f.records))
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

func (f *fakeRepo) ListEvaluations(ctx context.Context, recordID uint64) ([]*partnermodel.ChecklistEvaluation, error) {
	return f.evaluations[recordID], nil
}

func (f *fakeRepo) ReplaceEvaluations(ctx context.Context, recordID uint64, evaluations []*partnermodel.ChecklistEvaluation) error {
	f.evaluations[recordID] = evaluations
	return nil
}

func (f *fakeRepo) CreateOPLItem(ctx context.Context, recordID uint64, item *partnermodel.OPLItem) (uint64, error) {
	f.nextID++
	item.ID = f.nextID
	item.RecordID = recordID
	f.oplItems[item.ID] = item
	return item.ID, nil
}

func (f *fakeRepo) UpdateOPLItem(ctx context.Context, id uint64, item *partnermodel.OPLItem) error {
	item.ID = id
	f.oplItems[id] = item
	return nil
}

func (f *fakeRepo) DeleteOPLItem(ctx context.Context, id uint64) error {
	delete(f.oplItems, id)
	return nil
}

func (f *fakeRepo) ListOPLItems(ctx context.Context, recordID uint64) ([]*partnermodel.OPLItem, error) {
	var out []*partnermodel.OPLItem
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
	return system.Actor{UserID: 3, Name: "박민수", Team: "보안팀", Department: "정보보호부"}
}

func dateOf(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestSaveCreateWithChildCollections(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)
	assert.True(t, view.AddMode)
	assert.True(t, strings.HasPrefix(view.Code, "AUD-"))

	audit := &partnermodel.PartnerAudit{
		PartnerCompany: "대한시스템",
		Auditor:        "박민수",
		Team:           "보안팀",
		Grade:          "B",
		Status:         changelogmodel.StatusWaiting,
		AuditDate:      dateOf("2026-07-15"),
	}
	assert.NoError(t, svc.UpdateDraft(view.SessionID, audit))
	assert.NoError(t, svc.SetEvaluations(view.SessionID, []*partnermodel.ChecklistEvaluation{
		{ItemCode: "DOC-01", ItemName: "보안서약서", Result: "적합"},
	}))

	oplItem := &partnermodel.OPLItem{Content: "외주인력 교육 실시", Owner: "박민수"}
	_, err = svc.AddOPLItem(view.SessionID, oplItem)
	assert.NoError(t, err)
	assert.Equal(t, view.Code+"-01", oplItem.Code)

	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Empty(t, result.ChildWarnings)

	assert.Len(t, repo.records, 1)
	assert.Len(t, repo.evaluations[result.ParentID], 1)
	items, _ := repo.ListOPLItems(context.Background(), result.ParentID)
	assert.Len(t, items, 1)

	entries, _, _ := logRepo.ListByRecordCode(context.Background(), ModuleName, result.Code, 1, 10)
	assert.Len(t, entries, 1)
	assert.Equal(t, "create", entries[0].Action)
}

func TestValidationRequiresPartnerCompany(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	assert.NoError(t, svc.UpdateDraft(view.SessionID, &partnermodel.PartnerAudit{AuditDate: dateOf("2026-08-01")}))
	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "partner_company", ve.Field)
	assert.Empty(t, repo.records)
}

func TestChangeStatusWritesChangeLog(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)

	record := &partnermodel.PartnerAudit{
		Code: "AUD-26-001", PartnerCompany: "누리ICT", Status: changelogmodel.StatusWaiting,
		RegistrationDate: time.Now(), AuditDate: dateOf("2026-05-20"),
	}
	repo.CreateRecord(context.Background(), record)

	moved, err := svc.ChangeStatus(context.Background(), record.ID, changelogmodel.StatusInProgress, testActor())
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Len(t, logRepo.entries, 1)
	assert.Equal(t, "status", logRepo.entries[0].ChangedField)
}
