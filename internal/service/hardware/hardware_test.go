package hardware

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"adminboard/internal/model"
	changelogmodel "adminboard/internal/model/changelog"
	hwmodel "adminboard/internal/model/hardware"
	"adminboard/internal/model/system"
	"adminboard/internal/service/changelog"
)

// fakeRepo 内存实现的硬件资产仓库,用于服务层测试
type fakeRepo struct {
	nextID uint64
	assets map[uint64]*hwmodel.HardwareAsset
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{assets: make(map[uint64]*hwmodel.HardwareAsset)}
}

func (f *fakeRepo) CreateRecord(ctx context.Context, asset *hwmodel.HardwareAsset) (uint64, error) {
	f.nextID++
	asset.ID = f.nextID
	f.assets[asset.ID] = asset
	return asset.ID, nil
}

func (f *fakeRepo) GetRecordByID(ctx context.Context, id uint64) (*hwmodel.HardwareAsset, error) {
	return f.assets[id], nil
}

func (f *fakeRepo) GetRecordByCode(ctx context.Context, code string) (*hwmodel.HardwareAsset, error) {
	for _, a := range f.assets {
		if a.Code == code {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) UpdateRecord(ctx context.Context, id uint64, asset *hwmodel.HardwareAsset) error {
	existing, ok := f.assets[id]
	if !ok {
		return errors.New("asset not found")
	}
	asset.ID = id
	asset.Code = existing.Code
	f.assets[id] = asset
	return nil
}

func (f *fakeRepo) DeleteRecord(ctx context.Context, id uint64) error {
	delete(f.assets, id)
	return nil
}

func (f *fakeRepo) ListRecords(ctx context.Context) ([]*hwmodel.HardwareAsset, error) {
	out := make([]*hwmodel.HardwareAsset, 0, len(f.assets))
	for _, a := range f.assets {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) ListCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	for _, a := range f.assets {
		if strings.HasPrefix(a.Code, prefix+"-") {
			out = append(out, a.Code)
		}
	}
	return out, nil
}

func (f *fakeRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	a, _ := f.GetRecordByCode(ctx, code)
	return a != nil, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	a, ok := f.assets[id]
	if !ok {
		return errors.New("asset not found")
	}
	a.Status = status
	return nil
}

func (f *fakeRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, a := range f.assets {
		out[a.Status]++
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
	return NewService(repo, logs, changelog.NewTracker(logs), 10, 5)
}

func testActor() system.Actor {
	return system.Actor{UserID: 1, Name: "김철수", Team: "보안팀", Department: "정보보호부"}
}

func seedAsset(repo *fakeRepo, code, name, status string) *hwmodel.HardwareAsset {
	asset := &hwmodel.HardwareAsset{
		Code:             code,
		Name:             name,
		Team:             "보안팀",
		Status:           status,
		RegistrationDate: time.Now(),
	}
	repo.CreateRecord(context.Background(), asset)
	return asset
}

func TestMoveCardClickOpensEditor(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)
	asset := seedAsset(repo, "HW-26-001", "노트북", changelogmodel.StatusWaiting)

	// 位移低于阈值(5):点击,不移动、不产生日志
	result, err := svc.MoveCard(context.Background(), asset.ID, changelogmodel.StatusDone, 2, 3, testActor())
	assert.NoError(t, err)
	assert.True(t, result.OpenEditor)
	assert.False(t, result.Moved)
	assert.Equal(t, changelogmodel.StatusWaiting, repo.assets[asset.ID].Status)
	assert.Empty(t, logRepo.entries)
}

func TestMoveCardDragAcrossColumns(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)
	asset := seedAsset(repo, "HW-26-002", "방화벽", changelogmodel.StatusWaiting)

	result, err := svc.MoveCard(context.Background(), asset.ID, changelogmodel.StatusInProgress, 120, 4, testActor())
	assert.NoError(t, err)
	assert.False(t, result.OpenEditor)
	assert.True(t, result.Moved)
	assert.Equal(t, changelogmodel.StatusInProgress, repo.assets[asset.ID].Status)

	assert.Len(t, logRepo.entries, 1)
	assert.Equal(t, "kanban_move", logRepo.entries[0].Action)
	assert.Equal(t, "status", logRepo.entries[0].ChangedField)
	assert.Equal(t, changelogmodel.StatusWaiting, logRepo.entries[0].BeforeValue)
	assert.Equal(t, changelogmodel.StatusInProgress, logRepo.entries[0].AfterValue)
}

func TestMoveCardDragBackToSameColumnIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)
	asset := seedAsset(repo, "HW-26-003", "스위치", changelogmodel.StatusInProgress)

	result, err := svc.MoveCard(context.Background(), asset.ID, changelogmodel.StatusInProgress, 80, 0, testActor())
	assert.NoError(t, err)
	assert.False(t, result.OpenEditor)
	assert.False(t, result.Moved)
	assert.Equal(t, changelogmodel.StatusInProgress, result.Status)
	assert.Empty(t, logRepo.entries)
}

func TestBoardColumnsFixedOrderWithCounts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLogRepo{})
	seedAsset(repo, "HW-26-001", "노트북A", changelogmodel.StatusWaiting)
	seedAsset(repo, "HW-26-002", "노트북B", changelogmodel.StatusWaiting)
	seedAsset(repo, "HW-26-003", "서버", changelogmodel.StatusDone)

	view, err := svc.Board(context.Background(), &model.ListRequest{})
	assert.NoError(t, err)

	// 空列也保留,列序固定
	statuses := changelogmodel.AllStatuses()
	assert.Len(t, view.Columns, len(statuses))
	for i, col := range view.Columns {
		assert.Equal(t, statuses[i], col.Status)
	}

	assert.Equal(t, int64(2), view.Columns[0].Count)
	assert.Len(t, view.Columns[0].Cards, 2)
	// ID降序:后登记的卡片在前
	assert.Equal(t, "HW-26-002", view.Columns[0].Cards[0].Code)
	assert.Equal(t, int64(0), view.Columns[1].Count)
	assert.Empty(t, view.Columns[1].Cards)
}

func TestOpenEditorAddModeAllocatesCode(t *testing.T) {
	repo := newFakeRepo()
	yy := time.Now().Format("06")
	seedAsset(repo, "HW-"+yy+"-001", "기존", changelogmodel.StatusWaiting)
	svc := newTestService(repo, &fakeLogRepo{})

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)
	assert.True(t, view.AddMode)
	assert.Equal(t, "HW-"+yy+"-002", view.Code)
	assert.Equal(t, changelogmodel.StatusWaiting, view.Parent.Status)
}

func TestSaveValidationRequiresName(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)

	view, err := svc.OpenEditor(context.Background(), 0)
	assert.NoError(t, err)

	assert.NoError(t, svc.UpdateDraft(view.SessionID, &hwmodel.HardwareAsset{ModelName: "ThinkPad"}))
	_, err = svc.Save(context.Background(), view.SessionID, testActor())
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Empty(t, repo.assets)

	// 补全资产名后保存成功并记录创建事件
	assert.NoError(t, svc.UpdateDraft(view.SessionID, &hwmodel.HardwareAsset{Name: "업무용 노트북", Status: changelogmodel.StatusWaiting}))
	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, view.Code, repo.assets[result.ParentID].Code)
	assert.Len(t, logRepo.entries, 1)
	assert.Equal(t, "create", logRepo.entries[0].Action)
}

func TestSaveEditModeStatusDiffLogsTransition(t *testing.T) {
	repo := newFakeRepo()
	logRepo := &fakeLogRepo{}
	svc := newTestService(repo, logRepo)
	asset := seedAsset(repo, "HW-26-005", "백업 서버", changelogmodel.StatusWaiting)

	view, err := svc.OpenEditor(context.Background(), asset.ID)
	assert.NoError(t, err)
	assert.False(t, view.AddMode)

	edited := *asset
	edited.Status = changelogmodel.StatusDone
	assert.NoError(t, svc.UpdateDraft(view.SessionID, &edited))

	result, err := svc.Save(context.Background(), view.SessionID, testActor())
	assert.NoError(t, err)
	assert.False(t, result.Created)

	assert.Len(t, logRepo.entries, 1)
	assert.Equal(t, "status_change", logRepo.entries[0].Action)
	assert.Equal(t, changelogmodel.StatusWaiting, logRepo.entries[0].BeforeValue)
	assert.Equal(t, changelogmodel.StatusDone, logRepo.entries[0].AfterValue)
}
