/**
 * 草稿编辑:错误定义
 * @description: 保存协议的错误分类：校验错误、编号耗尽、父记录保存失败、子集合保存失败
 * @func: ErrAllocationExhausted、ParentSaveError、ChildFailure
 */
package draft

import (
	"errors"
	"fmt"
)

// ErrAllocationExhausted 编号分配在达到探测上限后仍未找到空闲编号
// 上限来自配置，探测上限<=0时分配循环不设上限
var ErrAllocationExhausted = errors.New("业务编号分配已耗尽")

// ParentSaveError 父记录创建/更新失败
// 对整个保存操作是致命的：草稿原样保留，子集合未发起任何调用，用户可直接重试
type ParentSaveError struct {
	Create bool  // true表示新建失败，false表示更新失败
	Err    error // 底层错误
}

// Error 实现error接口
func (e *ParentSaveError) Error() string {
	if e.Create {
		return fmt.Sprintf("父记录创建失败: %v", e.Err)
	}
	return fmt.Sprintf("父记录更新失败: %v", e.Err)
}

// Unwrap 返回底层错误
func (e *ParentSaveError) Unwrap() error {
	return e.Err
}

// ChildFailure 子集合单个操作的失败
// 被捕获后不会中断后续操作，聚合在SaveResult中作为非致命警告返回
type ChildFailure struct {
	Collection string // 子集合名称
	Op         string // create / update / delete
	ItemID     uint64 // 既有条目的远端ID，新建条目为0
	Err        error  // 底层错误
}

// Error 实现error接口
func (f *ChildFailure) Error() string {
	return fmt.Sprintf("子集合 %s %s 失败 (id=%d): %v", f.Collection, f.Op, f.ItemID, f.Err)
}
