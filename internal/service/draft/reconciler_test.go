package draft

import (
	"context"
	"errors"
	"testing"

	"adminboard/internal/model"

	"github.com/stretchr/testify/assert"
)

// 测试用父记录与子条目
type fakeParent struct {
	Title  string
	Status string
}

type fakeChild struct {
	Name string
}

// callRecorder 记录远端调用序列的假协作方
type callRecorder struct {
	creates    []fakeChild
	updates    []uint64
	deletes    []uint64
	failCreate error
	failUpdate error
	failDelete error
}

func (r *callRecorder) ops() ChildOps[fakeChild] {
	return ChildOps[fakeChild]{
		Create: func(ctx context.Context, parentID uint64, item fakeChild) error {
			if r.failCreate != nil {
				return r.failCreate
			}
			r.creates = append(r.creates, item)
			return nil
		},
		Update: func(ctx context.Context, id uint64, item fakeChild) error {
			if r.failUpdate != nil {
				return r.failUpdate
			}
			r.updates = append(r.updates, id)
			return nil
		},
		Delete: func(ctx context.Context, id uint64) error {
			if r.failDelete != nil {
				return r.failDelete
			}
			r.deletes = append(r.deletes, id)
			return nil
		},
	}
}

func okParentOps(nextID uint64, updates *int) ParentOps[fakeParent] {
	return ParentOps[fakeParent]{
		Create: func(ctx context.Context, p fakeParent) (uint64, error) {
			return nextID, nil
		},
		Update: func(ctx context.Context, id uint64, p fakeParent) error {
			if updates != nil {
				*updates++
			}
			return nil
		},
	}
}

func TestChildSet_AddThenRemoveLocalLeavesEmptyDiff(t *testing.T) {
	// 本地新增再删除，保存时必须是空差异：无create、无update、无delete
	rec := &callRecorder{}
	col := NewCollection("comments", rec.ops())

	ref := col.Set.Add(fakeChild{Name: "draft only"})
	assert.True(t, ref.IsLocal())
	col.Set.Remove(ref)
	assert.True(t, col.Set.Empty())

	editor := NewEditor(Session[fakeParent]{ParentID: 7}, okParentOps(0, nil))
	editor.Attach(col)

	result, err := editor.Save(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, result.ChildFailures)
	assert.Empty(t, rec.creates)
	assert.Empty(t, rec.updates)
	assert.Empty(t, rec.deletes)
}

func TestChildSet_RemoveAfterUpdatePurgesModified(t *testing.T) {
	// 先修改后删除同一既有条目：保存时只应发delete，绝不能对已删除行发update
	rec := &callRecorder{}
	col := NewCollection("line_items", rec.ops())

	col.Set.Update(RemoteRef(42), fakeChild{Name: "edited"})
	col.Set.Remove(RemoteRef(42))

	editor := NewEditor(Session[fakeParent]{ParentID: 7}, okParentOps(0, nil))
	editor.Attach(col)

	result, err := editor.Save(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, result.ChildFailures)
	assert.Empty(t, rec.updates)
	assert.Equal(t, []uint64{42}, rec.deletes)
}

func TestChildSet_UpdateIgnoredAfterRemove(t *testing.T) {
	set := NewChildSet[fakeChild]()
	set.Remove(RemoteRef(5))
	set.Update(RemoteRef(5), fakeChild{Name: "too late"})

	assert.Empty(t, set.ModifiedIDs())
	assert.Equal(t, []uint64{5}, set.DeletedIDs())
}

func TestSave_ValidationFailureBeforeAnyNetworkCall(t *testing.T) {
	rec := &callRecorder{}
	col := NewCollection("comments", rec.ops())
	col.Set.Add(fakeChild{Name: "pending"})

	parentCalls := 0
	ops := ParentOps[fakeParent]{
		Create: func(ctx context.Context, p fakeParent) (uint64, error) {
			parentCalls++
			return 1, nil
		},
		Update: func(ctx context.Context, id uint64, p fakeParent) error {
			parentCalls++
			return nil
		},
	}

	editor := NewEditor(Session[fakeParent]{}, ops)
	editor.Validate(func(p fakeParent) *model.ValidationError {
		if p.Title == "" {
			return &model.ValidationError{Field: "title", Message: "费用名称为必填项"}
		}
		return nil
	})
	editor.Attach(col)

	_, err := editor.Save(context.Background())
	var ve *model.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Field)
	assert.Zero(t, parentCalls)
	assert.Empty(t, rec.creates)
	// 校验失败不得清空草稿
	assert.False(t, col.Set.Empty())
}

func TestSave_ParentFailurePreservesDraft(t *testing.T) {
	// 父记录创建失败是致命的：子集合零调用，草稿变更集原样保留以便重试
	rec := &callRecorder{}
	col := NewCollection("comments", rec.ops())
	col.Set.Add(fakeChild{Name: "keep me"})
	col.Set.Update(RemoteRef(9), fakeChild{Name: "keep me too"})
	col.Set.Remove(RemoteRef(10))

	bootErr := errors.New("connection refused")
	ops := ParentOps[fakeParent]{
		Create: func(ctx context.Context, p fakeParent) (uint64, error) {
			return 0, bootErr
		},
	}

	editor := NewEditor(Session[fakeParent]{Code: "COST-24-001"}, ops)
	editor.Attach(col)

	_, err := editor.Save(context.Background())
	var pse *ParentSaveError
	assert.ErrorAs(t, err, &pse)
	assert.True(t, pse.Create)
	assert.ErrorIs(t, err, bootErr)

	assert.Empty(t, rec.creates)
	assert.Empty(t, rec.updates)
	assert.Empty(t, rec.deletes)
	assert.Len(t, col.Set.PendingNew(), 1)
	assert.Equal(t, []uint64{9}, col.Set.ModifiedIDs())
	assert.Equal(t, []uint64{10}, col.Set.DeletedIDs())
	// 新建模式保持未提交状态
	assert.True(t, editor.Session().IsAddMode())
}

func TestSave_ChildFailureDoesNotAbortRemaining(t *testing.T) {
	// 第一个集合的create失败不阻断同集合及后续集合的操作；
	// 父记录保存成功，整体仍视为成功并附带警告
	failing := &callRecorder{failCreate: errors.New("disk full")}
	colA := NewCollection("line_items", failing.ops())
	colA.Set.Add(fakeChild{Name: "will fail"})
	colA.Set.Update(RemoteRef(3), fakeChild{Name: "still updated"})

	healthy := &callRecorder{}
	colB := NewCollection("attachments", healthy.ops())
	colB.Set.Add(fakeChild{Name: "survives"})

	editor := NewEditor(Session[fakeParent]{}, okParentOps(11, nil))
	editor.Attach(colA).Attach(colB)

	result, err := editor.Save(context.Background())
	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, uint64(11), result.ParentID)

	// colA的update仍被执行，colB的create仍被执行
	assert.Equal(t, []uint64{3}, failing.updates)
	assert.Len(t, healthy.creates, 1)

	assert.Len(t, result.ChildFailures, 1)
	assert.Equal(t, "line_items", result.ChildFailures[0].Collection)
	assert.Equal(t, "create", result.ChildFailures[0].Op)

	warnings := result.Warnings()
	assert.Len(t, warnings, 1)
	assert.Equal(t, "disk full", warnings[0].Reason)
}

func TestSave_IdempotentAfterClear(t *testing.T) {
	// 保存成功后变更集被清空，再次保存是空差异：
	// 除可选的父记录空更新外不应有任何子集合调用
	rec := &callRecorder{}
	col := NewCollection("comments", rec.ops())
	col.Set.Add(fakeChild{Name: "first save"})

	parentUpdates := 0
	editor := NewEditor(Session[fakeParent]{ParentID: 5}, okParentOps(0, &parentUpdates))
	editor.Attach(col)

	_, err := editor.Save(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rec.creates, 1)
	assert.True(t, col.Set.Empty())

	_, err = editor.Save(context.Background())
	assert.NoError(t, err)
	assert.Len(t, rec.creates, 1) // 没有新的子集合调用
	assert.Equal(t, 2, parentUpdates)
}

func TestSave_CollectionsAppliedInAttachOrder(t *testing.T) {
	var order []string
	mkOps := func(name string) ChildOps[fakeChild] {
		return ChildOps[fakeChild]{
			Create: func(ctx context.Context, parentID uint64, item fakeChild) error {
				order = append(order, name)
				return nil
			},
			Update: func(ctx context.Context, id uint64, item fakeChild) error { return nil },
			Delete: func(ctx context.Context, id uint64) error { return nil },
		}
	}

	first := NewCollection("line_items", mkOps("line_items"))
	second := NewCollection("comments", mkOps("comments"))
	third := NewCollection("attachments", mkOps("attachments"))
	first.Set.Add(fakeChild{})
	second.Set.Add(fakeChild{})
	third.Set.Add(fakeChild{})

	editor := NewEditor(Session[fakeParent]{ParentID: 1}, okParentOps(0, nil))
	editor.Attach(first).Attach(second).Attach(third)

	_, err := editor.Save(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"line_items", "comments", "attachments"}, order)
}
