package education

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	edumodel "adminboard/internal/model/education"
	"adminboard/internal/model/system"
	"adminboard/internal/service/changelog"
)

// fakeRepo 内存实现的教育仓库
type fakeRepo struct {
	nextID    uint64
	records   map[uint64]*edumodel.EducationRecord
	attendees map[uint64]*edumodel.EducationAttendee
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:   make(map[uint64]*edumodel.EducationRecord),
		attendees: make(map[uint64]*edumodel.EducationAttendee),
	}
}

func (f *fakeRepo) CreateRecord(ctx context.Context, record *edumodel.EducationRecord) (uint64, error) {
	f.nextID++
	record.ID = f.nextID
	f.records[record.ID] = record
	return record.ID, nil
}

func (f *fakeRepo) GetRecordByID(ctx context.Context, id uint64) (*edumodel.EducationRecord, error) {
	return f.records[id], nil
}

func (f *fakeRepo) GetRecordByCode(ctx context.Context, code string) (*edumodel.EducationRecord, error) {
	for _, r := range f.records {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateRecord(ctx context.Context, id uint64, record *edumodel.EducationRecord) error {
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

func (f *fakeRepo) ListRecords(ctx context.Context) ([]*edumodel.EducationRecord, error) {
	out := make([]*edumodel.EducationRecord, 0, len(f.records))
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

func (f *fakeRepo) CreateAttendee(ctx context.Context, recordID uint64, attendee *edumodel.EducationAttendee) (uint64, error) {
	f.nextID++
	attendee.ID = f.nextID
	attendee.RecordID = recordID
	f.attendees[attendee.ID] = attendee
	return attendee.ID, nil
}

func (f *fakeRepo) UpdateAttendee(ctx context.Context, id uint64, attendee *edumodel.EducationAttendee) error {
	existing, ok := f.attendees[id]
	if !ok {
		return errors.New("attendee not found")
	}
	attendee.ID = id
	attendee.RecordID = existing.RecordID
	f.attendees[id] = attendee
	return nil
}

func (f *fakeRepo) DeleteAttendee(ctx context.Context, id uint64) error {
	delete(f.attendees, id)
	return nil
}

func (f *fakeRepo) ListAttendees(ctx context.Context, recordID uint64) ([]*edumodel.EducationAttendee, error) {
	var out []*edumodel.EducationAttendee
	for _, a := range f.attendees {
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

func newTestService(repo *fakeRepo) *Service {
	logs := changelog.NewService(&fakeLogRepo{})
	return NewService(repo, logs, changelog.NewTracker(logs), 10)
}

func testActor() system.Actor {
	return system.Actor{UserID: 4, Name: "최지우", Team: "기획팀", Department: "경영지원부"}
}

func dateOf(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0.0, CompletionRate(nil))

	attendees := []*edumodel.EducationAttendee{
		{Name: "김철수", Completed: true},
		{Name: "이영희", Completed: true},
		{Name: "박민수", Completed: false},
		{Name: "최지우", Completed: false},
	}
	assert.InDelta(t, 50.0, CompletionRate(attendees), 0.001)
}

func TestAttendeeDraftLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	record := &edumodel.EducationRecord{
		Course:        "개인정보보호 교육",
		Instructor:    "최지우",
		Team:          "전사",
		Status:        changelogmodel.StatusWaiting,
		EducationDate: dateOf("2026-09-10"),
		DurationHours: 2,
	}
	assert.NoError(t, svc.UpdateDraft(view.SessionID, record))

	// 本地新增后立即移除,保存时不产生任何子集合调用
	ref1, err := svc.AddAttendee(view.SessionID, &edumodel.EducationAttendee{Name: "김철수", Team: "보안팀"})
	assert.NoError(t, err)
	_, err = svc.AddAttendee(view.SessionID, &edumodel.EducationAttendee{Name: "이영희", Team: "보안팀"})
	assert.NoError(t, err)
	assert.NoError(t, svc.RemoveAttendee(view.SessionID, ref1))

	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.True(t, result.Created)

	attendees, _ := repo.ListAttendees(context.Background(), result.ParentID)
	assert.Len(t, attendees, 1)
	assert.Equal(t, "이영희", attendees[0].Name)
}

func TestValidationRequiresCourse(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	assert.NoError(t, svc.UpdateDraft(view.SessionID, &edumodel.EducationRecord{EducationDate: dateOf("2026-10-01")}))
	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "course", ve.Field)
}

func TestGetDetailComputesCompletionRate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	record := &edumodel.EducationRecord{
		Code: "EDU-26-001", Course: "정보보안 기본", Status: changelogmodel.StatusDone,
		RegistrationDate: time.Now(), EducationDate: dateOf("2026-02-14"),
	}
	repo.CreateRecord(context.Background(), record)
	repo.CreateAttendee(context.Background(), record.ID, &edumodel.EducationAttendee{Name: "김철수", Completed: true})
	repo.CreateAttendee(context.Background(), record.ID, &edumodel.EducationAttendee{Name: "이영희", Completed: false})

	detail, err := svc.GetDetail(context.Background(), record.ID)
	assert.NoError(t, err)
	assert.Len(t, detail.Attendees, 2)
	assert.InDelta(t, 50.0, detail.CompletionRate, 0.001)
}
