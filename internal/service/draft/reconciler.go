/**
 * 草稿编辑:差异对账器
 * @description: 保存时遍历草稿，按固定顺序产出远端操作序列：
 *               父记录锚点提交 → 各子集合依次 update/delete/create。
 *               父记录保存是唯一致命步骤；子集合失败被捕获聚合，不中断后续操作。
 * @func: Editor、Collection、SaveResult
 */
package draft

import (
	"context"

	"adminboard/internal/model"
	"adminboard/internal/pkg/logger"
)

// ParentOps 父记录的远端操作
type ParentOps[P any] struct {
	Create func(ctx context.Context, parent P) (uint64, error)  // 新建，返回远端ID
	Update func(ctx context.Context, id uint64, parent P) error // 更新
}

// ChildOps 单个子集合的远端操作
type ChildOps[C any] struct {
	Create func(ctx context.Context, parentID uint64, item C) error // 新建，打上parentID
	Update func(ctx context.Context, id uint64, item C) error       // 按远端ID更新
	Delete func(ctx context.Context, id uint64) error               // 按远端ID删除
}

// Validator 父记录必填校验，保存前执行，失败则不发起任何网络调用
type Validator[P any] func(parent P) *model.ValidationError

// Applier 子集合对账操作的统一入口
// Collection 是唯一实现；接口只是为了让不同条目类型的集合挂到同一个编辑器上
type Applier interface {
	name() string
	apply(ctx context.Context, parentID uint64) []ChildFailure
	clear()
	empty() bool
}

// Collection 绑定了远端操作的子集合
type Collection[C any] struct {
	collectionName string
	Set            *ChildSet[C]
	ops            ChildOps[C]
}

// NewCollection 创建子集合
func NewCollection[C any](name string, ops ChildOps[C]) *Collection[C] {
	return &Collection[C]{
		collectionName: name,
		Set:            NewChildSet[C](),
		ops:            ops,
	}
}

func (c *Collection[C]) name() string { return c.collectionName }
func (c *Collection[C]) empty() bool  { return c.Set.Empty() }
func (c *Collection[C]) clear()       { c.Set.Clear() }

// apply 依次落实 modified → deleted → pendingNew
// 每个子步骤的失败被捕获记录后继续，父记录之外没有致命步骤
func (c *Collection[C]) apply(ctx context.Context, parentID uint64) []ChildFailure {
	var failures []ChildFailure

	for id, value := range c.Set.modified {
		if err := c.ops.Update(ctx, id, value); err != nil {
			failures = append(failures, ChildFailure{Collection: c.collectionName, Op: "update", ItemID: id, Err: err})
		}
	}
	for id := range c.Set.deleted {
		if err := c.ops.Delete(ctx, id); err != nil {
			failures = append(failures, ChildFailure{Collection: c.collectionName, Op: "delete", ItemID: id, Err: err})
		}
	}
	for _, p := range c.Set.pendingNew {
		if err := c.ops.Create(ctx, parentID, p.value); err != nil {
			failures = append(failures, ChildFailure{Collection: c.collectionName, Op: "create", Err: err})
		}
	}

	return failures
}

// SaveResult 一次保存的结果
// 父记录保存成功即视为保存成功；子集合失败作为非致命警告附带返回，
// 调用方应将其展示给用户并允许手动重试
type SaveResult struct {
	ParentID      uint64
	Code          string
	Created       bool
	ChildFailures []ChildFailure
}

// Editor 通用草稿编辑器
// 每个模块实例化一次：传入父记录操作，按依赖/展示顺序挂载各子集合。
// 同一草稿上的所有远端操作串行await，绝不对同一记录并发下发
type Editor[P any] struct {
	session     Session[P]
	parentOps   ParentOps[P]
	validators  []Validator[P]
	collections []Applier
}

// NewEditor 创建编辑器
func NewEditor[P any](session Session[P], ops ParentOps[P]) *Editor[P] {
	return &Editor[P]{session: session, parentOps: ops}
}

// Validate 追加一条必填校验规则
func (e *Editor[P]) Validate(v Validator[P]) *Editor[P] {
	e.validators = append(e.validators, v)
	return e
}

// Attach 按固定顺序挂载子集合
// 顺序即保存顺序：费用明细先于备注先于附件，与依赖/展示顺序一致
func (e *Editor[P]) Attach(c Applier) *Editor[P] {
	e.collections = append(e.collections, c)
	return e
}

// SetParent 覆盖父字段编辑值
func (e *Editor[P]) SetParent(parent P) {
	e.session.Parent = parent
}

// Session 返回当前会话
func (e *Editor[P]) Session() *Session[P] {
	return &e.session
}

// Save 执行差异对账保存
// 步骤：
//  1. 必填校验，失败时无任何部分写入
//  2. 父记录锚点提交：新建模式create(失败则整体中止，草稿保留)，编辑模式update
//  3. 各子集合按挂载顺序 update/delete/create，失败捕获聚合不中断
//  4. 清空全部变更集；已清空的草稿再次Save是空差异，不会产生子集合调用
func (e *Editor[P]) Save(ctx context.Context) (*SaveResult, error) {
	for _, validate := range e.validators {
		if ve := validate(e.session.Parent); ve != nil {
			return nil, ve
		}
	}

	created := false
	if e.session.IsAddMode() {
		id, err := e.parentOps.Create(ctx, e.session.Parent)
		if err != nil {
			return nil, &ParentSaveError{Create: true, Err: err}
		}
		e.session.ParentID = id
		created = true
	} else {
		if err := e.parentOps.Update(ctx, e.session.ParentID, e.session.Parent); err != nil {
			return nil, &ParentSaveError{Err: err}
		}
	}

	var failures []ChildFailure
	for _, c := range e.collections {
		if c.empty() {
			continue
		}
		for _, f := range c.apply(ctx, e.session.ParentID) {
			failures = append(failures, f)
			logger.LogBusinessError(f.Err, "", 0, "", "draft_save_child", "SERVICE", map[string]interface{}{
				"operation":  "draft_save_child",
				"collection": f.Collection,
				"op":         f.Op,
				"item_id":    f.ItemID,
				"parent_id":  e.session.ParentID,
			})
		}
		c.clear()
	}

	return &SaveResult{
		ParentID:      e.session.ParentID,
		Code:          e.session.Code,
		Created:       created,
		ChildFailures: failures,
	}, nil
}

// Warnings 将子集合失败转换为API响应中的警告列表
func (r *SaveResult) Warnings() []model.ChildWarning {
	if len(r.ChildFailures) == 0 {
		return nil
	}
	out := make([]model.ChildWarning, 0, len(r.ChildFailures))
	for _, f := range r.ChildFailures {
		out = append(out, model.ChildWarning{
			Collection: f.Collection,
			Operation:  f.Op,
			ItemID:     f.ItemID,
			Reason:     f.Err.Error(),
		})
	}
	return out
}
