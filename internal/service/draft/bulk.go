/**
 * 草稿编辑:整批替换子集合
 * @description: 费用明细、检查项评估等约定为"整批删除后重建"的子集合。
 *               草稿持有完整工作副本，保存时一次replace落实，不做逐条diff
 * @func: BulkCollection
 */
package draft

import "context"

// ReplaceFunc 整批替换的远端操作，先清空parentID下的旧行再写入items
type ReplaceFunc[C any] func(ctx context.Context, parentID uint64, items []C) error

// BulkCollection 整批替换型子集合
// 与 Collection 一样实现 Applier，可挂载到同一编辑器上
type BulkCollection[C any] struct {
	collectionName string
	items          []C
	dirty          bool
	replace        ReplaceFunc[C]
}

// NewBulkCollection 创建整批替换子集合
func NewBulkCollection[C any](name string, replace ReplaceFunc[C]) *BulkCollection[C] {
	return &BulkCollection[C]{collectionName: name, replace: replace}
}

// Seed 用远端既有行播种工作副本，不标记脏
func (b *BulkCollection[C]) Seed(items []C) {
	b.items = items
}

// SetItems 覆盖工作副本并标记脏，保存时触发整批替换
func (b *BulkCollection[C]) SetItems(items []C) {
	b.items = items
	b.dirty = true
}

// Items 返回当前工作副本
func (b *BulkCollection[C]) Items() []C {
	return b.items
}

func (b *BulkCollection[C]) name() string { return b.collectionName }
func (b *BulkCollection[C]) empty() bool  { return !b.dirty }
func (b *BulkCollection[C]) clear()       { b.dirty = false }

// apply 一次整批替换；失败产出单条ChildFailure，不中断其他集合
func (b *BulkCollection[C]) apply(ctx context.Context, parentID uint64) []ChildFailure {
	if err := b.replace(ctx, parentID, b.items); err != nil {
		return []ChildFailure{{Collection: b.collectionName, Op: "replace", Err: err}}
	}
	return nil
}
