package changelog

import (
	"context"
	"errors"
	"testing"

	changelogmodel "adminboard/internal/model/changelog"
	"adminboard/internal/model/system"

	"github.com/stretchr/testify/assert"
)

// MockChangeLogRepository 内存变更日志仓库
type MockChangeLogRepository struct {
	Entries   []*changelogmodel.ChangeLogEntry
	AppendErr error
}

func (m *MockChangeLogRepository) Append(ctx context.Context, entry *changelogmodel.ChangeLogEntry) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Entries = append(m.Entries, entry)
	return nil
}

func (m *MockChangeLogRepository) ListByRecordCode(ctx context.Context, module, recordCode string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	return m.Entries, int64(len(m.Entries)), nil
}

func (m *MockChangeLogRepository) ListByModule(ctx context.Context, module string, page, pageSize int) ([]*changelogmodel.ChangeLogEntry, int64, error) {
	return m.Entries, int64(len(m.Entries)), nil
}

func testActor() system.Actor {
	return system.Actor{UserID: 1, Name: "김보안", Team: "보안팀", Department: "정보보호부"}
}

func TestTransition_ProducesSingleEntry(t *testing.T) {
	repo := &MockChangeLogRepository{}
	tracker := NewTracker(NewService(repo))

	updated := ""
	update := func(ctx context.Context, id uint64, status string) error {
		updated = status
		return nil
	}

	moved, err := tracker.Transition(context.Background(), "hardware", 3, "HW-24-003",
		changelogmodel.StatusInProgress, changelogmodel.StatusDone, testActor(), update)
	assert.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, changelogmodel.StatusDone, updated)

	assert.Len(t, repo.Entries, 1)
	entry := repo.Entries[0]
	assert.Equal(t, "status", entry.ChangedField)
	assert.Equal(t, "진행", entry.BeforeValue)
	assert.Equal(t, "완료", entry.AfterValue)
	assert.Equal(t, "김보안", entry.ActorName)
}

func TestTransition_SameStatusIsNoOp(t *testing.T) {
	repo := &MockChangeLogRepository{}
	tracker := NewTracker(NewService(repo))

	updateCalls := 0
	update := func(ctx context.Context, id uint64, status string) error {
		updateCalls++
		return nil
	}

	moved, err := tracker.Transition(context.Background(), "hardware", 3, "HW-24-003",
		changelogmodel.StatusInProgress, changelogmodel.StatusInProgress, testActor(), update)
	assert.NoError(t, err)
	assert.False(t, moved)
	assert.Zero(t, updateCalls)
	assert.Empty(t, repo.Entries)
}

func TestTransition_InvalidStatusRejected(t *testing.T) {
	repo := &MockChangeLogRepository{}
	tracker := NewTracker(NewService(repo))

	moved, err := tracker.Transition(context.Background(), "hardware", 3, "HW-24-003",
		changelogmodel.StatusWaiting, "unknown", testActor(), nil)
	assert.Error(t, err)
	assert.False(t, moved)
	assert.Empty(t, repo.Entries)
}

func TestTransition_RemoteFailureProducesNoEntry(t *testing.T) {
	repo := &MockChangeLogRepository{}
	tracker := NewTracker(NewService(repo))

	update := func(ctx context.Context, id uint64, status string) error {
		return errors.New("timeout")
	}

	moved, err := tracker.Transition(context.Background(), "cost", 1, "COST-24-001",
		changelogmodel.StatusWaiting, changelogmodel.StatusInProgress, testActor(), update)
	assert.Error(t, err)
	assert.False(t, moved)
	assert.Empty(t, repo.Entries)
}

func TestTransition_AuditFailureSwallowed(t *testing.T) {
	// 审计下游故障不影响状态流转本身的结果
	repo := &MockChangeLogRepository{AppendErr: errors.New("audit sink down")}
	tracker := NewTracker(NewService(repo))

	update := func(ctx context.Context, id uint64, status string) error { return nil }

	moved, err := tracker.Transition(context.Background(), "cost", 1, "COST-24-001",
		changelogmodel.StatusWaiting, changelogmodel.StatusInProgress, testActor(), update)
	assert.NoError(t, err)
	assert.True(t, moved)
}

func TestClassifyPointerGesture(t *testing.T) {
	// 低于阈值按点击处理，达到阈值按拖拽处理
	assert.Equal(t, GestureClick, ClassifyPointerGesture(1, 1, 5))
	assert.Equal(t, GestureClick, ClassifyPointerGesture(3, 3.9, 5))
	assert.Equal(t, GestureDrag, ClassifyPointerGesture(4, 3, 5))
	assert.Equal(t, GestureDrag, ClassifyPointerGesture(0, 12, 5))
	// 阈值<=0时回退默认值
	assert.Equal(t, GestureClick, ClassifyPointerGesture(1, 1, 0))
}
