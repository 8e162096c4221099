/**
 * 草稿编辑:草稿存储
 * @description: 单次编辑会话的内存暂存区。父字段编辑与各子集合的三类变更集
 *               (待新建/已修改/已删除)全部只在内存中累积，保存前不触网。
 * @func: ItemRef、ChildSet、Session
 */
package draft

import (
	"fmt"
	"sync/atomic"
	"time"
)

// localSeq 本地ID生成计数器，同一毫秒内多次Add也不会重复
var localSeq uint64

// LocalID 未保存条目的本地标识
type LocalID string

func newLocalID() LocalID {
	return LocalID(fmt.Sprintf("local_%d_%d", time.Now().UnixMilli(), atomic.AddUint64(&localSeq, 1)))
}

// ItemRef 子条目引用，区分"本地新建"与"远端既有"两种形态
// 保存时路由到 create 还是 update/delete 由形态决定，不依赖任何字符串前缀约定，
// 远端ID也就不可能与本地ID的格式撞车
type ItemRef struct {
	remoteID uint64
	localID  LocalID
}

// RemoteRef 构造指向远端既有条目的引用
func RemoteRef(id uint64) ItemRef {
	return ItemRef{remoteID: id}
}

// LocalRef 构造指向本地未保存条目的引用
func LocalRef(id LocalID) ItemRef {
	return ItemRef{localID: id}
}

// ParseRef 由线上传输的两段式引用还原ItemRef
// remoteID非0视为远端引用，否则按本地引用处理
func ParseRef(remoteID uint64, localID string) ItemRef {
	if remoteID != 0 {
		return RemoteRef(remoteID)
	}
	return LocalRef(LocalID(localID))
}

// IsLocal 该引用是否指向本地未保存条目
func (r ItemRef) IsLocal() bool {
	return r.remoteID == 0
}

// Remote 远端ID，本地条目返回0
func (r ItemRef) Remote() uint64 {
	return r.remoteID
}

// Local 本地ID，远端条目返回空串
func (r ItemRef) Local() LocalID {
	return r.localID
}

// pendingItem 带本地ID的待新建条目
type pendingItem[C any] struct {
	local LocalID
	value C
}

// ChildSet 单个子集合的三类变更集
// 渲染以此为唯一事实来源；任何变更都不直接触网
type ChildSet[C any] struct {
	pendingNew []pendingItem[C]
	modified   map[uint64]C
	deleted    map[uint64]struct{}
}

// NewChildSet 创建空的子集合变更集
func NewChildSet[C any]() *ChildSet[C] {
	return &ChildSet[C]{
		modified: make(map[uint64]C),
		deleted:  make(map[uint64]struct{}),
	}
}

// Add 追加一条待新建条目，分配本地ID并返回其引用
func (s *ChildSet[C]) Add(value C) ItemRef {
	id := newLocalID()
	s.pendingNew = append(s.pendingNew, pendingItem[C]{local: id, value: value})
	return LocalRef(id)
}

// Update 更新一条子条目
// 本地条目：就地改写pendingNew中的值；
// 远端条目：记入modified，不触网；已标记删除的条目忽略更新
func (s *ChildSet[C]) Update(ref ItemRef, value C) {
	if ref.IsLocal() {
		for i := range s.pendingNew {
			if s.pendingNew[i].local == ref.Local() {
				s.pendingNew[i].value = value
				return
			}
		}
		return
	}
	if _, gone := s.deleted[ref.Remote()]; gone {
		return
	}
	s.modified[ref.Remote()] = value
}

// Remove 移除一条子条目
// 本地条目：直接从pendingNew删除，保存时不会产生任何调用；
// 远端条目：记入deleted，并清掉该ID的modified条目，
// 保证保存时不会对已删除的行再发更新
func (s *ChildSet[C]) Remove(ref ItemRef) {
	if ref.IsLocal() {
		for i := range s.pendingNew {
			if s.pendingNew[i].local == ref.Local() {
				s.pendingNew = append(s.pendingNew[:i], s.pendingNew[i+1:]...)
				return
			}
		}
		return
	}
	s.deleted[ref.Remote()] = struct{}{}
	delete(s.modified, ref.Remote())
}

// Empty 三类变更集是否全部为空
func (s *ChildSet[C]) Empty() bool {
	return len(s.pendingNew) == 0 && len(s.modified) == 0 && len(s.deleted) == 0
}

// Clear 清空全部变更集（保存成功后调用）
func (s *ChildSet[C]) Clear() {
	s.pendingNew = nil
	s.modified = make(map[uint64]C)
	s.deleted = make(map[uint64]struct{})
}

// PendingNew 返回待新建条目值的快照，按加入顺序
func (s *ChildSet[C]) PendingNew() []C {
	out := make([]C, 0, len(s.pendingNew))
	for _, p := range s.pendingNew {
		out = append(out, p.value)
	}
	return out
}

// ModifiedIDs 返回已修改条目的远端ID列表
func (s *ChildSet[C]) ModifiedIDs() []uint64 {
	out := make([]uint64, 0, len(s.modified))
	for id := range s.modified {
		out = append(out, id)
	}
	return out
}

// DeletedIDs 返回已删除条目的远端ID列表
func (s *ChildSet[C]) DeletedIDs() []uint64 {
	out := make([]uint64, 0, len(s.deleted))
	for id := range s.deleted {
		out = append(out, id)
	}
	return out
}

// Session 编辑会话值对象
// 编辑模式下由远端记录播种，新建模式下为空白草稿加预分配编号；
// 对话框关闭即整体丢弃，无脏数据提示也无自动保存
type Session[P any] struct {
	ParentID       uint64 // 0表示新建模式
	Code           string // 预分配或既有的业务编号
	Parent         P      // 父字段编辑的聚合值
	OriginalStatus string // 打开会话时的状态，保存后用于判断是否需要状态变更日志
}

// IsAddMode 是否为新建模式
func (s *Session[P]) IsAddMode() bool {
	return s.ParentID == 0
}
